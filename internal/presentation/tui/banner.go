package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner with the library version. Colors
// degrade automatically on dumb terminals via termenv profile detection.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()

	lines := []struct {
		text  string
		color string
	}{
		{"  ┌─┐┌─┐┌─┐┌─┐┬  ┬ ┌─┐┬─┐", "#34d399"},
		{"  ├┤ └─┐├─┘├─┤│  │ ├┤ ├┬┘", "#10b981"},
		{"  └─┘└─┘┴  ┴ ┴┴─┘┴ └─┘┴└─", "#059669"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
