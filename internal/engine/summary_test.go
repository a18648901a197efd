package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/engine"
	"github.com/aretw0/espalier/pkg/catalog"
	"github.com/aretw0/espalier/pkg/domain"
)

func TestSummaryBuilder(t *testing.T) {
	cat, err := catalog.NewBuilder("signup").
		Number("age", "Age", "Age?").
		Choice("plan", "Plan", "Plan?", "free", "pro").
		Number("seats", "Seats", "Seats?").
		Build()
	require.NoError(t, err)

	b := engine.SummaryBuilder{Header: "✅ Setup complete:"}
	got := b.Build(cat, map[int]domain.Value{
		0: domain.NumberValue(27.5),
		1: domain.ChoiceValue("pro"),
		2: domain.NumberValue(3),
	})

	assert.Equal(t, "✅ Setup complete:\n• Age: 27.5\n• Plan: pro\n• Seats: 3", got)
}
