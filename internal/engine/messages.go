package engine

// Messages holds the fixed texts the engine emits around the catalog's own
// prompts and rejection reasons. The defaults speak the chat transport's
// command vocabulary; deployments on other transports override them.
type Messages struct {
	// Intro is prepended to the first prompt when a run starts. Empty by
	// default: the first question is its own invitation.
	Intro string

	// Guidance is the reply to an answer that arrives while the user is
	// idle. It must tell the user how to begin; it never creates a session.
	Guidance string

	// CancelAck acknowledges a cancel event, whether or not a run existed.
	CancelAck string

	// SummaryHeader is the first line of the completion summary.
	SummaryHeader string
}

// DefaultMessages returns the stock texts.
func DefaultMessages() Messages {
	return Messages{
		Guidance:      "🤔 No setup in progress. Send /setup to begin.",
		CancelAck:     "❌ Setup cancelled.",
		SummaryHeader: "✅ Setup complete:",
	}
}

func (m Messages) withDefaults() Messages {
	def := DefaultMessages()
	if m.Guidance == "" {
		m.Guidance = def.Guidance
	}
	if m.CancelAck == "" {
		m.CancelAck = def.CancelAck
	}
	if m.SummaryHeader == "" {
		m.SummaryHeader = def.SummaryHeader
	}
	return m
}
