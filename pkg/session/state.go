package session

import (
	"time"

	"github.com/aretw0/tinderbolt/pkg/conversation"
	"github.com/aretw0/tinderbolt/pkg/domain"
)

// State is the per-user dialog context.
// It is owned by the Manager and must only be touched inside Manager.WithLock.
type State struct {
	UserID       int64
	ChatID       int64
	Dialog       domain.Dialog
	Conversation *conversation.Adapter
	UpdatedAt    time.Time
}

// Mode returns the active dialog mode.
func (s *State) Mode() domain.Mode {
	return s.Dialog.Mode()
}

// Step returns the interview step, or 0 outside interview modes.
func (s *State) Step() int {
	return domain.StepOf(s.Dialog)
}

// Enter replaces the dialog, as every mode-entry command does.
// The conversation history is left alone; the next exchange decides what to keep.
func (s *State) Enter(d domain.Dialog) {
	s.Dialog = d
}

// Snapshot copies the state for introspection.
func (s *State) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		UserID:    s.UserID,
		ChatID:    s.ChatID,
		UpdatedAt: s.UpdatedAt,
	}
	snap.Describe(s.Dialog)
	if s.Conversation != nil {
		snap.History = s.Conversation.History()
	}
	return snap
}
