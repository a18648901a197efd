package domain

import "time"

// UserID is the opaque stable identity of a remote participant.
// It is the sole key into the session store.
type UserID string

// Session is the runtime snapshot of one user's wizard run. It exists only
// between a start event and the matching completion or cancellation; there
// is no paused-forever state beyond normal persistence durability.
type Session struct {
	User        UserID `json:"user"`
	CurrentStep int    `json:"current_step"`

	// Answers holds the validated results for steps 0..CurrentStep-1,
	// keyed by step index. It never contains CurrentStep or later.
	Answers map[int]Value `json:"answers"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted payload when a persistence middleware
	// has sealed the session for storage. Empty in normal operation; a
	// sealed session has no readable Answers.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a fresh session at step 0 with no answers.
func NewSession(user UserID, now time.Time) *Session {
	return &Session{
		User:      user,
		Answers:   make(map[int]Value),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Record stores the accepted value for the given step and advances past it.
func (s *Session) Record(step int, v Value, now time.Time) {
	if s.Answers == nil {
		s.Answers = make(map[int]Value)
	}
	s.Answers[step] = v
	s.CurrentStep = step + 1
	s.UpdatedAt = now
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate persisted state in place.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Answers = make(map[int]Value, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	return &out
}
