package engine

import (
	"strings"

	"github.com/aretw0/espalier/pkg/catalog"
	"github.com/aretw0/espalier/pkg/domain"
)

// SummaryBuilder renders the confirmation message for a completed run: the
// header followed by one bullet per step, in step order, each formatted with
// the step's own label.
type SummaryBuilder struct {
	Header string
}

// Build is pure and total over any answers map that covers every catalog
// step; the engine guarantees that before calling it.
func (b SummaryBuilder) Build(cat *catalog.Catalog, answers map[int]domain.Value) string {
	var sb strings.Builder
	sb.WriteString(b.Header)
	for i := 0; i < cat.Len(); i++ {
		sb.WriteString("\n• ")
		sb.WriteString(cat.Step(i).Label)
		sb.WriteString(": ")
		sb.WriteString(answers[i].String())
	}
	return sb.String()
}
