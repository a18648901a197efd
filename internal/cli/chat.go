package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/runner"
	"golang.org/x/term"
)

// ChatOptions controls the interactive conversation loop.
type ChatOptions struct {
	// JSON switches to line-delimited JSON: events in, replies out.
	JSON bool

	// Plain disables markdown rendering even on a terminal.
	Plain bool

	// Headless suppresses the banner and the startup resume notice, for
	// driving the loop from another program.
	Headless bool

	// User overrides the configured local identity for this run.
	User string

	// Input and Output default to Stdin and Stdout.
	Input  io.Reader
	Output io.Writer
}

// RunChat runs the conversation until the input ends or the user interrupts.
// An interrupt is a clean exit: the session stays in the store and the next
// run resumes it.
func RunChat(ctx context.Context, rt *Runtime, opts ChatOptions) error {
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	if !opts.JSON && !opts.Headless && isTerminal(out) {
		tui.PrintBanner(out, espalier.Version)
	}

	user := rt.Config.User
	if opts.User != "" {
		user = opts.User
	}

	r := runner.New(
		runner.WithWizard(rt.Wizard),
		runner.WithEventHandler(rt.Handler),
		runner.WithInputHandler(buildIOHandler(opts, in, out, user)),
		runner.WithLogger(rt.Logger),
		runner.WithUser(domain.UserID(user)),
		runner.WithHeadless(opts.Headless),
		runner.WithMiddleware(runner.EventLogging(rt.Logger)),
	)

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func buildIOHandler(opts ChatOptions, in io.Reader, out io.Writer, user string) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(in, out)
	}

	var hOpts []runner.TextHandlerOption
	if !opts.Plain && isTerminal(out) {
		hOpts = append(hOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	}
	// The default identity would make for a strange greeting ("Hello
	// local!"), so only explicit names reach the welcome line.
	if user != "" && user != "local" {
		hOpts = append(hOpts, runner.WithTextHandlerName(user))
	}
	return runner.NewTextHandler(in, out, hOpts...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
