package catalog

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// fileDef is the on-disk shape of a catalog definition.
type fileDef struct {
	Version string    `yaml:"version"`
	Wizard  wizardDef `yaml:"wizard"`
}

type wizardDef struct {
	Name      string        `yaml:"name"`
	Questions []questionDef `yaml:"questions"`
}

type questionDef struct {
	Key        string         `yaml:"key"`
	Label      string         `yaml:"label"`
	Prompt     string         `yaml:"prompt"`
	Reject     string         `yaml:"reject"`
	Validation map[string]any `yaml:"validation"`
}

// ruleDef is the decoded form of a question's validation block. The block is
// kept as a loose map in YAML so each kind can carry its own fields.
type ruleDef struct {
	Kind    string   `mapstructure:"kind"`
	Options []string `mapstructure:"options"`
}

// Load reads and compiles a catalog definition file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse compiles a YAML catalog definition. Structural problems are reported
// all at once through an AggregateError so a broken file can be fixed in one
// pass.
func Parse(data []byte) (*Catalog, error) {
	var def fileDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if def.Version != "" && def.Version != "1" {
		return nil, fmt.Errorf("unsupported catalog version %q", def.Version)
	}

	var errs []error
	questions := make([]Question, 0, len(def.Wizard.Questions))
	for i, qd := range def.Wizard.Questions {
		rule, err := decodeRule(i, qd.Key, qd.Validation)
		if err != nil {
			errs = append(errs, err)
		}
		questions = append(questions, Question{
			Index:  i,
			Key:    qd.Key,
			Label:  qd.Label,
			Prompt: qd.Prompt,
			Rule:   rule,
			Reject: qd.Reject,
		})
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return New(def.Wizard.Name, questions)
}

func decodeRule(step int, key string, raw map[string]any) (Rule, error) {
	if raw == nil {
		return nil, &ConfigError{Step: step, Key: key, Reason: "missing validation block"}
	}

	var rd ruleDef
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &rd,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build validation decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &ConfigError{Step: step, Key: key, Reason: fmt.Sprintf("invalid validation block: %v", err)}
	}

	switch rd.Kind {
	case KindPositiveNumber:
		return PositiveNumber{}, nil
	case KindChoice:
		return Choice{Options: rd.Options}, nil
	case "":
		return nil, &ConfigError{Step: step, Key: key, Reason: "validation kind is required"}
	default:
		return nil, &ConfigError{Step: step, Key: key, Reason: fmt.Sprintf("unsupported validation kind %q", rd.Kind)}
	}
}
