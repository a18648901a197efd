package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// Rule kind identifiers, as used in definition files.
const (
	KindPositiveNumber = "positive_number"
	KindChoice         = "choice"
)

// Outcome is the result of validating one raw answer. It is a plain value,
// never an error: a rejection is an expected, user-recoverable condition.
type Outcome struct {
	Accepted bool
	Value    domain.Value // meaningful only when Accepted
	Reason   string       // meaningful only when rejected
}

// Accept builds an accepting outcome carrying the canonical value.
func Accept(v domain.Value) Outcome {
	return Outcome{Accepted: true, Value: v}
}

// Reject builds a rejecting outcome carrying a fixed reason text.
func Reject(reason string) Outcome {
	return Outcome{Reason: reason}
}

// Rule checks a raw answer string against one validation kind.
// Implementations are pure and carry the fixed fallback rejection text for
// their kind; the rejection reason never echoes the raw input.
type Rule interface {
	Kind() string
	Validate(raw string) Outcome
}

// PositiveNumber accepts decimal numbers strictly greater than zero, in
// integer or fractional form.
type PositiveNumber struct{}

// Kind implements Rule.
func (PositiveNumber) Kind() string { return KindPositiveNumber }

// Validate implements Rule. Empty, whitespace-only and non-numeric input
// is rejected, as are zero, negatives, NaN and infinities.
func (PositiveNumber) Validate(raw string) Outcome {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Reject(rejectPositiveNumber)
	}
	// Decimal forms only; ParseFloat alone would also admit hex floats.
	if strings.ContainsAny(trimmed, "xX") {
		return Reject(rejectPositiveNumber)
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return Reject(rejectPositiveNumber)
	}
	return Accept(domain.NumberValue(n))
}

const rejectPositiveNumber = "❌ Please enter a positive number."

// Choice accepts an answer matching one of a fixed option set. Matching
// trims whitespace and folds case; the accepted value canonicalizes to the
// normalized option, not the raw input.
type Choice struct {
	Options []string
}

// Kind implements Rule.
func (Choice) Kind() string { return KindChoice }

// Validate implements Rule.
func (c Choice) Validate(raw string) Outcome {
	got := normalizeChoice(raw)
	if got == "" {
		return Reject(c.rejectText())
	}
	for _, opt := range c.Options {
		if got == normalizeChoice(opt) {
			return Accept(domain.ChoiceValue(got))
		}
	}
	return Reject(c.rejectText())
}

// rejectText lists the allowed options. It is built from the catalog
// definition only, so it is safe to send verbatim.
func (c Choice) rejectText() string {
	quoted := make([]string, 0, len(c.Options))
	for _, opt := range c.Options {
		quoted = append(quoted, "'"+normalizeChoice(opt)+"'")
	}
	var list string
	switch len(quoted) {
	case 0:
		list = "one of the listed options"
	case 1:
		list = quoted[0]
	default:
		list = strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
	}
	return "❌ Please answer " + list + "."
}

func normalizeChoice(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
