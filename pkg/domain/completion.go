package domain

import "time"

// Completion is the outcome record of a finished run: all steps answered
// and accepted. It outlives the session, which is deleted the moment the
// run completes.
type Completion struct {
	ID          string        `json:"id"`
	User        UserID        `json:"user"`
	Answers     map[int]Value `json:"answers"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}
