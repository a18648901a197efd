package catalog

// Question is one immutable step of the sequence.
type Question struct {
	// Index is the 0-based position. The catalog enforces contiguity.
	Index int

	// Key names the answer in definition files and archives.
	Key string

	// Label names the answer in the final summary.
	Label string

	// Prompt is the text sent to the user when the step is entered.
	Prompt string

	// Rule validates raw answers for this step.
	Rule Rule

	// Reject, when non-empty, replaces the rule's default rejection text.
	// It is a fixed, step-specific message, never derived from user input.
	Reject string
}

// Validate runs the step's rule over a raw answer, substituting the step's
// own rejection text when configured.
func (q Question) Validate(raw string) Outcome {
	out := q.Rule.Validate(raw)
	if !out.Accepted && q.Reject != "" {
		out.Reason = q.Reject
	}
	return out
}
