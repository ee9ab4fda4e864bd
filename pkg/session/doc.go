/*
Package session implements the per-user session store of the dialog engine.

It creates sessions lazily on a user's first event, keeps them for the process
lifetime and serializes every event of one user behind a per-session critical
section, optionally extended across replicas by a distributed locker.
*/
package session
