package domain

// EventKind classifies an inbound message. The transport layer decides the
// kind (command keyword vs. free text); the engine only dispatches on it.
type EventKind string

const (
	// EventStart begins a fresh run, discarding any prior progress.
	EventStart EventKind = "start"
	// EventAnswer carries raw text answering the current step.
	EventAnswer EventKind = "answer"
	// EventCancel aborts the run and clears the session.
	EventCancel EventKind = "cancel"
)

// Event is one inbound message from a user. Each event produces exactly one
// outbound text reply.
type Event struct {
	User UserID    `json:"user"`
	Kind EventKind `json:"kind"`

	// Text is the raw answer. Only meaningful when Kind is EventAnswer.
	Text string `json:"text,omitempty"`
}

// Reply is the outbound message produced by handling one event.
type Reply struct {
	Text string `json:"text"`

	// Done reports that the exchange ended the run, either by completing it
	// or by cancelling it. The session no longer exists when Done is true.
	Done bool `json:"done"`
}
