package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/runner"
	"github.com/aretw0/espalier/pkg/session"
)

// Drives two interleaved conversations through one gated wizard over the
// JSON transport, the way a bridge process would multiplex chat users.
func TestRunner_GatedMultiUserFlow(t *testing.T) {
	wiz, err := espalier.New()
	if err != nil {
		t.Fatalf("Failed to create wizard: %v", err)
	}
	gate := session.NewGate(wiz)

	lines := []string{
		`{"user":"ana","kind":"start"}`,
		`{"user":"bruno","kind":"start"}`,
		`{"user":"ana","kind":"answer","text":"20"}`,
		`{"user":"bruno","kind":"answer","text":"12"}`,
		`{"user":"ana","kind":"answer","text":"percent"}`,
		`{"user":"bruno","kind":"answer","text":"number"}`,
		`{"user":"ana","kind":"answer","text":"10"}`,
		`{"user":"bruno","kind":"cancel"}`,
	}
	input := strings.Join(lines, "\n") + "\n"
	outBuf := &bytes.Buffer{}

	r := runner.New(
		runner.WithEventHandler(gate),
		runner.WithHeadless(true),
	)
	r.Handler = runner.NewJSONHandler(bytes.NewBufferString(input), outBuf)

	done := make(chan error)
	go func() {
		done <- r.Run(context.Background())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Runner failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Runner timed out")
	}

	out := outBuf.String()
	if !strings.Contains(out, "✅ Setup complete:") {
		t.Errorf("Expected ana's summary, got: %s", out)
	}
	if !strings.Contains(out, "• Puffs: 20") {
		t.Errorf("Expected ana's answers in the summary, got: %s", out)
	}
	if !strings.Contains(out, "❌ Setup cancelled.") {
		t.Errorf("Expected bruno's cancel ack, got: %s", out)
	}

	// Ana finished and bruno cancelled, so no sessions remain.
	users, err := wiz.Store().List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected no sessions left, got %v", users)
	}
}
