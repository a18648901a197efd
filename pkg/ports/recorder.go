package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// Recorder archives the outcome of completed runs. A run is only reported as
// complete to the user after its completion has been recorded, so
// implementations must treat Record as the durable side of the handshake.
//
// Record must be idempotent for the same user and start time; the engine may
// retry after a crash between recording and session cleanup.
type Recorder interface {
	Record(ctx context.Context, c *domain.Completion) error
}
