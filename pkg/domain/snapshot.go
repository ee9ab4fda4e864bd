package domain

import "time"

// Snapshot is a read-only copy of a session, safe to hand to introspection surfaces.
type Snapshot struct {
	UserID     int64       `json:"user_id"`
	ChatID     int64       `json:"chat_id"`
	Mode       Mode        `json:"mode"`
	Step       int         `json:"step,omitempty"`
	Persona    string      `json:"persona,omitempty"`
	Transcript []string    `json:"transcript,omitempty"`
	Profile    UserProfile `json:"profile,omitempty"`
	History    []Turn      `json:"history,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Describe fills the mode-specific fields of s from d.
func (s *Snapshot) Describe(d Dialog) {
	s.Mode = d.Mode()
	switch v := d.(type) {
	case DateDialog:
		s.Persona = v.Persona
	case MessageDialog:
		s.Transcript = append([]string(nil), v.Transcript...)
	case InterviewDialog:
		s.Step = v.Step
		s.Profile = v.Profile
	}
}

// Masked replaces free text written by or about the user.
const Masked = "***"

// Redacted returns a copy with profile answers, transcript lines and non-system
// history masked. Mode, step and persona are kept.
func (s Snapshot) Redacted() Snapshot {
	out := s
	out.Profile = UserProfile{}
	for f := FieldName; f <= FieldGoals; f++ {
		if v := s.Profile.Get(f); v != "" {
			out.Profile.Set(f, Masked)
		}
	}
	if s.Transcript != nil {
		out.Transcript = make([]string, len(s.Transcript))
		for i := range s.Transcript {
			out.Transcript[i] = Masked
		}
	}
	if s.History != nil {
		out.History = make([]Turn, len(s.History))
		for i, t := range s.History {
			if t.Role != RoleSystem {
				t.Content = Masked
			}
			out.History[i] = t
		}
	}
	return out
}
