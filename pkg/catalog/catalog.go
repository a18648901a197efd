package catalog

import (
	"fmt"
	"strings"
)

// Catalog is the fixed, ordered question sequence of a wizard. It is
// read-only after construction; the step count never changes at runtime.
type Catalog struct {
	name      string
	questions []Question
}

// New builds a catalog from an ordered question list. Every configuration
// problem found is reported together in an AggregateError; a catalog that
// constructs successfully is valid for the whole process lifetime.
func New(name string, questions []Question) (*Catalog, error) {
	var errs []error

	if len(questions) == 0 {
		errs = append(errs, &ConfigError{Step: -1, Reason: "at least one question is required"})
	}

	seenKeys := make(map[string]int, len(questions))
	for i, q := range questions {
		if q.Index != i {
			errs = append(errs, &ConfigError{Step: i, Key: q.Key,
				Reason: fmt.Sprintf("index %d breaks the contiguous 0-based order (want %d)", q.Index, i)})
		}
		if strings.TrimSpace(q.Key) == "" {
			errs = append(errs, &ConfigError{Step: i, Reason: "key is required"})
		} else if prev, dup := seenKeys[q.Key]; dup {
			errs = append(errs, &ConfigError{Step: i, Key: q.Key,
				Reason: fmt.Sprintf("key already used by step %d", prev)})
		} else {
			seenKeys[q.Key] = i
		}
		if strings.TrimSpace(q.Label) == "" {
			errs = append(errs, &ConfigError{Step: i, Key: q.Key, Reason: "label is required"})
		}
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, &ConfigError{Step: i, Key: q.Key, Reason: "prompt is required"})
		}
		errs = append(errs, checkRule(i, q)...)
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}

	if name == "" {
		name = "wizard"
	}
	// Defensive copy; the input slice stays with the caller.
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Catalog{name: name, questions: qs}, nil
}

func checkRule(step int, q Question) []error {
	if q.Rule == nil {
		return []error{&ConfigError{Step: step, Key: q.Key, Reason: "validation rule is required"}}
	}

	var errs []error
	switch r := q.Rule.(type) {
	case PositiveNumber:
	case Choice:
		seen := make(map[string]bool, len(r.Options))
		for _, opt := range r.Options {
			norm := normalizeChoice(opt)
			if norm == "" {
				errs = append(errs, &ConfigError{Step: step, Key: q.Key, Reason: "choice option is empty"})
				continue
			}
			if seen[norm] {
				errs = append(errs, &ConfigError{Step: step, Key: q.Key,
					Reason: fmt.Sprintf("choice option %q is duplicated", norm)})
			}
			seen[norm] = true
		}
		if len(seen) < 2 {
			errs = append(errs, &ConfigError{Step: step, Key: q.Key,
				Reason: "choice rules need at least two distinct options"})
		}
	default:
		errs = append(errs, &ConfigError{Step: step, Key: q.Key,
			Reason: fmt.Sprintf("unsupported validation kind %q", q.Rule.Kind())})
	}
	return errs
}

// Name returns the wizard name from the definition.
func (c *Catalog) Name() string { return c.name }

// Len returns the total step count N.
func (c *Catalog) Len() int { return len(c.questions) }

// Step returns the question at step i. It panics outside [0, Len()):
// step indices come from catalog-driven loops and bound-checked sessions,
// so an out-of-range access is a programming error.
func (c *Catalog) Step(i int) Question {
	if i < 0 || i >= len(c.questions) {
		panic(fmt.Sprintf("catalog: step %d out of range [0,%d)", i, len(c.questions)))
	}
	return c.questions[i]
}

// Questions returns a copy of the full sequence, for introspection
// surfaces like validation reports and graph rendering.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}
