package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/aretw0/espalier/pkg/domain"
)

const helpText = `Available commands:
• /start – welcome message
• /setup – configure your reduction plan
• /cancel – abort current setup
• /help – this help`

// TextHandler implements the standard text-based interface. Slash commands
// are resolved here: /setup and /cancel become engine events, /start and
// /help are answered locally, and "exit" or "quit" ends the conversation.
//
// Events returned by Input carry no user identity; the Runner stamps its
// configured user before dispatching.
type TextHandler struct {
	source      io.Reader
	interactive bool // true when reading a terminal, where EOF may follow a signal
	Reader      *bufio.Reader
	Writer      io.Writer
	Renderer    ContentRenderer
	Name        string // optional display name for the welcome message

	inputChan chan inputResult
	chanOnce  sync.Once
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerName sets the display name used in the welcome message.
func WithTextHandlerName(name string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Name = name
	}
}

// NewTextHandler creates a handler for standard text IO.
//
// When r is nil the handler runs in bridge mode: no reading goroutine is
// started and input arrives only through FeedInput. This is how TUIs and
// tests drive the handler.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		source: r,
		Writer: w,
	}

	if r != nil {
		h.interactive = isTerminal(r)
		h.Reader = bufio.NewReader(r)
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// FeedInput injects a line as if the user had typed it. It is the input path
// for bridge mode and is safe to call from another goroutine.
func (h *TextHandler) FeedInput(text string, err error) {
	h.ensureChan()
	h.inputChan <- inputResult{text: text, err: err}
}

func (h *TextHandler) ensureChan() {
	h.chanOnce.Do(func() {
		h.inputChan = make(chan inputResult)
	})
}

func (h *TextHandler) initPump() {
	h.ensureChan()
	if h.Reader == nil {
		return // bridge mode
	}
	h.startOnce.Do(func() {
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" {
			h.inputChan <- inputResult{text: text, err: nil}
		}

		if err != nil {
			if err == io.EOF {
				if h.interactive {
					// On an interactive terminal, EOF may mean a signal
					// interrupted the read while the stream itself is still
					// valid. Pass the EOF so the current read fails, but
					// keep the channel open for reads after signal handling.
					h.inputChan <- inputResult{text: "", err: io.EOF}
					// Prevent busy loop if EOFs are generated rapidly (e.g. holding Ctrl+C)
					time.Sleep(50 * time.Millisecond)
					continue
				}
				close(h.inputChan)
				return
			}
			// Send non-EOF errors
			h.inputChan <- inputResult{text: "", err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Input reads lines until one of them produces a dispatchable event.
func (h *TextHandler) Input(ctx context.Context) (domain.Event, error) {
	h.initPump()

	for {
		// Only show prompt if context is not yet done
		select {
		case <-ctx.Done():
			return domain.Event{}, ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			// Important: don't print anything here, just exit silently
			return domain.Event{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return domain.Event{}, io.EOF
			}
			if res.err != nil {
				return domain.Event{}, res.err
			}
			text := strings.TrimSpace(res.text)

			// Sanitize Input (Limit + Control Chars)
			clean, err := SanitizeInput(text)
			if err != nil {
				// User Feedback: Prompt retry
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}

			ev, dispatch, err := h.classify(clean)
			if err != nil {
				return domain.Event{}, err
			}
			if !dispatch {
				continue // handled locally, read the next line
			}
			return ev, nil
		}
	}
}

// classify maps a sanitized line to a domain event. The second return is
// false when the line was fully handled here (local command, blank line).
func (h *TextHandler) classify(line string) (domain.Event, bool, error) {
	switch {
	case line == "":
		return domain.Event{}, false, nil
	case line == "exit" || line == "quit":
		return domain.Event{}, false, io.EOF
	case line == "/setup":
		return domain.Event{Kind: domain.EventStart}, true, nil
	case line == "/cancel":
		return domain.Event{Kind: domain.EventCancel}, true, nil
	case line == "/start":
		fmt.Fprintln(h.Writer, h.welcome())
		return domain.Event{}, false, nil
	case line == "/help":
		fmt.Fprintln(h.Writer, helpText)
		return domain.Event{}, false, nil
	case strings.HasPrefix(line, "/"):
		fmt.Fprintf(h.Writer, "Unknown command %q. Send /help for all commands.\n", line)
		return domain.Event{}, false, nil
	}
	return domain.Event{Kind: domain.EventAnswer, Text: line}, true, nil
}

func (h *TextHandler) welcome() string {
	greeting := "Hello! 👋"
	if h.Name != "" {
		greeting = fmt.Sprintf("Hello %s! 👋", h.Name)
	}
	return greeting + "\n\nI'm your personal vaping-reduction assistant.\nSend /help for all commands."
}

// Output prints a reply, optionally through the configured renderer.
func (h *TextHandler) Output(ctx context.Context, reply domain.Reply) error {
	output := reply.Text
	if h.Renderer != nil {
		rendered, err := h.Renderer(output)
		if err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output))
	return err
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}

// isTerminal reports whether r reads from an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
