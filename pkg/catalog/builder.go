package catalog

// Builder provides a fluent API for constructing catalogs in code, as an
// alternative to definition files.
//
//	cat, err := catalog.NewBuilder("signup").
//		Number("age", "Age", "How old are you?").
//		Choice("plan", "Plan", "Pick 'free' or 'pro'.", "free", "pro").
//		Build()
type Builder struct {
	name      string
	questions []Question
}

// NewBuilder starts an empty catalog definition.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Number appends a positive-number step.
func (b *Builder) Number(key, label, prompt string) *Builder {
	b.questions = append(b.questions, Question{
		Index:  len(b.questions),
		Key:    key,
		Label:  label,
		Prompt: prompt,
		Rule:   PositiveNumber{},
	})
	return b
}

// Choice appends a fixed-option step.
func (b *Builder) Choice(key, label, prompt string, options ...string) *Builder {
	b.questions = append(b.questions, Question{
		Index:  len(b.questions),
		Key:    key,
		Label:  label,
		Prompt: prompt,
		Rule:   Choice{Options: options},
	})
	return b
}

// Reject overrides the rejection text of the most recently added step.
func (b *Builder) Reject(text string) *Builder {
	if len(b.questions) > 0 {
		b.questions[len(b.questions)-1].Reject = text
	}
	return b
}

// Build compiles and validates the catalog.
func (b *Builder) Build() (*Catalog, error) {
	return New(b.name, b.questions)
}
