/*
Package domain contains the core models of the dialog engine.

It defines the entities the router reasons about: inbound Events, the per-mode
Dialog variants, UserProfiles collected by interviews, conversation Turns and
the outbound request shapes handed to the gateway. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Event: one inbound command, text message or button press, passed explicitly through the router.
  - Dialog: a tagged variant per Mode (Idle, Gpt, Date, Message, Profile, Opener).
  - UserProfile: optional free-text answers rendered by Summary in a fixed label order.
  - Turn: a role-tagged message of an exchange with the conversation service.
  - Snapshot: a read-only copy of a session for introspection.
*/
package domain
