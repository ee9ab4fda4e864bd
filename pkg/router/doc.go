// Package router runs the dialog state machine of one session for one inbound event.
//
// Commands take precedence in every mode. Otherwise the current dialog variant decides
// how free text and button presses are read, and anything it does not expect falls
// through to a generic echo reply.
package router
