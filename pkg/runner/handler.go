package runner

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Input reads the next event from the user. The handler classifies the
	// raw line (command vs. answer) and may resolve purely local commands
	// like /help itself before returning. It returns io.EOF when the
	// conversation is over (stream closed, or the user typed exit/quit).
	Input(ctx context.Context) (domain.Event, error)

	// Output presents an engine reply to the user.
	Output(ctx context.Context, reply domain.Reply) error

	// SystemOutput presents a meta-message to the user (status updates,
	// failures). This is distinct from conversation replies.
	SystemOutput(ctx context.Context, msg string) error
}
