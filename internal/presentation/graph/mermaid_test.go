package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/catalog"
)

func TestGenerateMermaid(t *testing.T) {
	cat := catalog.Default()

	got := graph.GenerateMermaid(cat, nil)

	for _, want := range []string{
		"graph TD",
		`start(("reduction"))`,
		`q_puffs[/"Puffs"/]`,
		`q_method[/"Method"/]`,
		`q_goal[/"Goal"/]`,
		"start --> q_puffs",
		"q_puffs --> q_method",
		"q_method --> q_goal",
		`q_puffs -. "retry" .-> q_puffs`,
		"q_goal --> summary",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() missing %q in:\n%s", want, got)
		}
	}

	if strings.Contains(got, "classDef") {
		t.Errorf("expected no overlay styles without an overlay:\n%s", got)
	}
}

func TestGenerateMermaidOverlay(t *testing.T) {
	cat := catalog.Default()

	got := graph.GenerateMermaid(cat, &graph.Overlay{CurrentStep: 1})

	for _, want := range []string{
		"class q_puffs answered;",
		"class q_method current;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() missing %q in:\n%s", want, got)
		}
	}

	if strings.Contains(got, "class q_goal") {
		t.Errorf("steps after the current one must stay unstyled:\n%s", got)
	}
}

func TestGenerateMermaidSanitizesKeys(t *testing.T) {
	cat, err := catalog.NewBuilder("custom").
		Number("daily-intake", "Daily intake", "How much per day?").
		Build()
	if err != nil {
		t.Fatal(err)
	}

	got := graph.GenerateMermaid(cat, nil)

	if !strings.Contains(got, `q_daily_intake[/"Daily intake"/]`) {
		t.Errorf("expected sanitized node id in:\n%s", got)
	}
}
