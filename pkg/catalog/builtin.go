package catalog

// Default returns the built-in reduction-plan catalog. It is the catalog the
// engine falls back to when no custom definition is supplied.
func Default() *Catalog {
	cat, err := NewBuilder("reduction").
		Number("puffs", "Puffs", "📊 How many puffs per day?").
		Choice("method", "Method", "🎯 Reduce by 'number' or 'percent'?", "number", "percent").
		Number("goal", "Goal", "💪 Weekly reduction goal?").
		Build()
	if err != nil {
		// The built-in definition is fixed at compile time. If it fails to
		// validate the binary is unusable.
		panic(err)
	}
	return cat
}
