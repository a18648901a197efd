package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

func runWithTimeout(t *testing.T, r *Runner) {
	t.Helper()
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
}

func TestRunner_Run_BasicFlow(t *testing.T) {
	wiz, err := espalier.New()
	if err != nil {
		t.Fatalf("Failed to create wizard: %v", err)
	}

	input := strings.Join([]string{
		"/setup",
		"abc", // rejected, the step repeats
		"20",
		"percent",
		"10",
		"exit",
	}, "\n") + "\n"
	outBuf := &bytes.Buffer{}

	r := New(WithWizard(wiz))
	r.Handler = NewTextHandler(bytes.NewBufferString(input), outBuf)

	runWithTimeout(t, r)

	out := outBuf.String()
	for _, want := range []string{
		"📊 How many puffs per day?",
		"❌ Please enter a positive number.",
		"💪 Weekly reduction goal?",
		"✅ Setup complete:",
		"• Method: percent",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunner_Run_JSONMode(t *testing.T) {
	wiz, err := espalier.New()
	if err != nil {
		t.Fatalf("Failed to create wizard: %v", err)
	}

	input := `{"kind":"start"}` + "\n" + `"20"` + "\n"
	outBuf := &bytes.Buffer{}

	r := New(WithWizard(wiz), WithHeadless(true))
	r.Handler = NewJSONHandler(bytes.NewBufferString(input), outBuf)

	runWithTimeout(t, r)

	out := outBuf.String()
	if !strings.Contains(out, "📊 How many puffs per day?") {
		t.Errorf("Expected first prompt in JSON output, got: %s", out)
	}
	if !strings.Contains(out, "number") {
		t.Errorf("Expected second prompt after the answer, got: %s", out)
	}
}

func TestRunner_ResumeNotice(t *testing.T) {
	wiz, err := espalier.New()
	if err != nil {
		t.Fatalf("Failed to create wizard: %v", err)
	}

	// Leave a run parked at step 1.
	ctx := context.Background()
	if _, err := wiz.Start(ctx, "local"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := wiz.Answer(ctx, "local", "20"); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	outBuf := &bytes.Buffer{}
	r := New(WithWizard(wiz))
	r.Handler = NewTextHandler(bytes.NewBufferString("exit\n"), outBuf)

	runWithTimeout(t, r)

	out := outBuf.String()
	if !strings.Contains(out, "Resuming your setup") {
		t.Errorf("Expected resume notice, got: %s", out)
	}
	if !strings.Contains(out, "🎯 Reduce by 'number' or 'percent'?") {
		t.Errorf("Expected the parked step's prompt, got: %s", out)
	}
}

func TestRunner_HeadlessSkipsResumeNotice(t *testing.T) {
	wiz, err := espalier.New()
	if err != nil {
		t.Fatalf("Failed to create wizard: %v", err)
	}
	if _, err := wiz.Start(context.Background(), "local"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	outBuf := &bytes.Buffer{}
	r := New(WithWizard(wiz), WithHeadless(true))
	r.Handler = NewTextHandler(bytes.NewBufferString("exit\n"), outBuf)

	runWithTimeout(t, r)

	if strings.Contains(outBuf.String(), "Resuming") {
		t.Errorf("Headless mode must not print the resume notice, got: %s", outBuf.String())
	}
}

func TestRunner_EngineFailureKeepsLooping(t *testing.T) {
	calls := 0
	events := ports.HandlerFunc(func(ctx context.Context, ev domain.Event) (domain.Reply, error) {
		calls++
		if calls == 1 {
			return domain.Reply{}, errors.New("transient store outage")
		}
		return domain.Reply{Text: "recovered"}, nil
	})

	input := "/setup\n/setup\nexit\n"
	outBuf := &bytes.Buffer{}

	r := New(WithEventHandler(events))
	r.Handler = NewTextHandler(bytes.NewBufferString(input), outBuf)

	runWithTimeout(t, r)

	out := outBuf.String()
	if !strings.Contains(out, failureMsg) {
		t.Errorf("Expected the generic failure message, got: %s", out)
	}
	if strings.Contains(out, "transient store outage") {
		t.Error("Internal error details must not reach the user")
	}
	if !strings.Contains(out, "recovered") {
		t.Errorf("Expected the loop to continue after a failure, got: %s", out)
	}
}

func TestRunner_StampsConfiguredUser(t *testing.T) {
	var seen []domain.UserID
	events := ports.HandlerFunc(func(ctx context.Context, ev domain.Event) (domain.Reply, error) {
		seen = append(seen, ev.User)
		return domain.Reply{Text: "ok"}, nil
	})

	r := New(WithEventHandler(events), WithUser("tester"))
	r.Handler = NewTextHandler(bytes.NewBufferString("/setup\nexit\n"), &bytes.Buffer{})

	runWithTimeout(t, r)

	if len(seen) != 1 || seen[0] != "tester" {
		t.Errorf("Expected events stamped with 'tester', got %v", seen)
	}
}

func TestRunner_MiddlewareWiring(t *testing.T) {
	var sawKind domain.EventKind
	spy := func(next ports.EventHandler) ports.EventHandler {
		return ports.HandlerFunc(func(ctx context.Context, ev domain.Event) (domain.Reply, error) {
			sawKind = ev.Kind
			return next.Handle(ctx, ev)
		})
	}

	events := ports.HandlerFunc(func(ctx context.Context, ev domain.Event) (domain.Reply, error) {
		return domain.Reply{Text: "ok"}, nil
	})

	r := New(WithEventHandler(events), WithMiddleware(spy))
	r.Handler = NewTextHandler(bytes.NewBufferString("/cancel\nexit\n"), &bytes.Buffer{})

	runWithTimeout(t, r)

	if sawKind != domain.EventCancel {
		t.Errorf("Expected middleware to see the cancel event, got %q", sawKind)
	}
}

func TestRunner_RequiresAnEventSource(t *testing.T) {
	r := New()
	r.Handler = NewTextHandler(bytes.NewBufferString("exit\n"), &bytes.Buffer{})

	if err := r.Run(context.Background()); err == nil {
		t.Fatal("Expected an error when neither wizard nor handler is configured")
	}
}
