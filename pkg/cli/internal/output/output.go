// Package output provides common output formatting utilities.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// JSON writes indented JSON to w.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table creates a table writer that renders to w.
// Call Render() when done appending rows.
func Table(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	return t
}

// Summary prints a "N item(s)" footer.
func Summary(w io.Writer, n int, singular, plural string) {
	noun := plural
	if n == 1 {
		noun = singular
	}
	_, _ = fmt.Fprintf(w, "%d %s\n", n, noun)
}

// Warn prints a warning message to w.
func Warn(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

// Timestamp formats epoch milliseconds in local time.
func Timestamp(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var methodColors = map[string]text.Colors{
	http.MethodGet:    {text.FgGreen},
	http.MethodPost:   {text.FgYellow},
	http.MethodPut:    {text.FgBlue},
	http.MethodPatch:  {text.FgCyan},
	http.MethodDelete: {text.FgRed},
}

// Method returns method, colored by verb when color is set.
func Method(method string, color bool) string {
	c, ok := methodColors[method]
	if !color || !ok {
		return method
	}
	return c.Sprint(method)
}
