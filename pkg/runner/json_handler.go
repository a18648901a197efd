package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines
// communication. Each input line is either a full event object
// ({"user":"u1","kind":"answer","text":"20"}) or a bare string, which is
// treated as an answer. Each reply goes out as one JSON line.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Input(ctx context.Context) (domain.Event, error) {
	for {
		text, err := h.Reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(text) == "" {
				return domain.Event{}, io.EOF
			}
			if err != io.EOF {
				return domain.Event{}, err
			}
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		ev, perr := parseEventLine(text)
		if perr != nil {
			return domain.Event{}, perr
		}

		clean, serr := SanitizeInput(ev.Text)
		if serr != nil {
			return domain.Event{}, serr
		}
		ev.Text = clean
		return ev, nil
	}
}

// parseEventLine accepts an event object, a quoted string, or raw text.
func parseEventLine(line string) (domain.Event, error) {
	if strings.HasPrefix(line, "{") {
		var ev domain.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return domain.Event{}, fmt.Errorf("malformed event line: %w", err)
		}
		if ev.Kind == "" {
			ev.Kind = domain.EventAnswer
		}
		return ev, nil
	}

	// Try to unquote if it's a JSON string
	var val string
	if err := json.Unmarshal([]byte(line), &val); err == nil {
		return domain.Event{Kind: domain.EventAnswer, Text: val}, nil
	}

	// Fallback: raw text answer
	return domain.Event{Kind: domain.EventAnswer, Text: line}, nil
}

func (h *JSONHandler) Output(ctx context.Context, reply domain.Reply) error {
	return h.Encoder.Encode(reply)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}
