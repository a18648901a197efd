package catalog

import "fmt"

// ConfigError reports a single catalog configuration problem. These are
// programming or deployment errors: they surface at construction time and
// are fatal at startup, never a runtime condition.
type ConfigError struct {
	Step   int    // step index, -1 when the problem is not tied to one step
	Key    string // question key when known
	Reason string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Step < 0:
		return fmt.Sprintf("catalog: %s", e.Reason)
	case e.Key != "":
		return fmt.Sprintf("catalog step %d (%s): %s", e.Step, e.Key, e.Reason)
	default:
		return fmt.Sprintf("catalog step %d: %s", e.Step, e.Reason)
	}
}

// AggregateError collects every configuration problem found during
// construction, so a broken definition file reports all its faults at once.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d catalog configuration errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ConfigErrors returns the individual problems if err is an AggregateError,
// nil otherwise.
func ConfigErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
