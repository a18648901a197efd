/*
Package catalog defines the fixed question sequence a wizard run walks
through, and the validation rules that accept or reject raw answers.

A Catalog is immutable after construction: the step count and every
Question are fixed for the process lifetime. All configuration problems
(missing prompts, unknown rule kinds, degenerate choice sets) are detected
at construction time and reported together, so a catalog that constructs
successfully never fails at runtime.

Catalogs come from three places:

  - Default(): the built-in three-step intake wizard.
  - Load/Parse: a YAML definition file.
  - NewBuilder(): fluent programmatic construction.

Validation is a plain value, never an error:

	q := cat.Step(0)
	out := q.Validate("  20 ")
	if out.Accepted {
		// out.Value holds the canonical answer
	} else {
		// out.Reason is a fixed, step-specific message
	}
*/
package catalog
