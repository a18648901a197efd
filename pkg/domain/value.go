package domain

import "strconv"

// ValueKind discriminates the payload of a validated answer.
type ValueKind string

const (
	// ValueNumber marks a positive decimal number answer.
	ValueNumber ValueKind = "number"
	// ValueChoice marks an answer picked from a fixed option set.
	ValueChoice ValueKind = "choice"
)

// Value is a validated answer. Exactly one payload field is meaningful,
// selected by Kind. The zero Value has no kind and renders empty.
type Value struct {
	Kind   ValueKind `json:"kind"`
	Number float64   `json:"number,omitempty"`
	Choice string    `json:"choice,omitempty"`
}

// NumberValue wraps a number accepted by validation.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// ChoiceValue wraps a normalized choice accepted by validation.
func ChoiceValue(c string) Value {
	return Value{Kind: ValueChoice, Choice: c}
}

// String returns the canonical text form used in summaries and archives.
// Numbers render with the shortest exact representation ("20", "12.5").
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueChoice:
		return v.Choice
	}
	return ""
}
