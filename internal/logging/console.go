package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"launcher/internal/functional"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

// ConsoleWriter renders zerolog's JSON events as coloured lines
type ConsoleWriter struct {
	out     io.Writer
	verbose bool
	color   colorstring.Colorize
	buffer  strings.Builder
	lock    sync.Mutex
}

func NewConsoleWriter(out io.Writer, verbose, color bool) *ConsoleWriter {
	return &ConsoleWriter{
		out:     out,
		verbose: verbose,
		color: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !color,
			Reset:   false,
		},
	}
}

// keys rendered as part of the line itself
var rendered = map[string]bool{
	"level":   true,
	"message": true,
	"target":  true,
	"error":   true,
	"detail":  true,
	"time":    true,
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	err = d.Decode(&evt)
	if err != nil {
		return n, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	w.buffer.Reset()
	switch evt["level"] {
	case "fatal", "error":
		w.buffer.WriteString(w.color.Color("[red]"))
	case "warn":
		w.buffer.WriteString(w.color.Color("[yellow]"))
	case "debug", "trace":
		w.buffer.WriteString(w.color.Color("[blue]"))
	default:
		w.buffer.WriteString(w.color.Color("[green]"))
	}

	if target, ok := evt["target"].(string); ok {
		w.buffer.WriteString(target + ": ")
	}

	if evt["level"] == "error" {
		w.buffer.WriteString("Error: ")
	}

	if msg, ok := evt["message"].(string); ok {
		w.buffer.WriteString(msg)
	}

	for _, key := range []string{"error", "detail"} {
		if details, ok := evt[key].(string); ok && details != "" {
			w.buffer.WriteString("\n")
			w.buffer.WriteString(details)
		}
	}

	if w.verbose {
		for _, key := range functional.SortedKeys(evt) {
			if !rendered[key] {
				w.buffer.WriteString(fmt.Sprintf("\n  %s: %v", key, evt[key]))
			}
		}
	}

	// message text is written verbatim; only the level codes are colorized
	w.buffer.WriteString(w.color.Color("[reset]"))
	w.buffer.WriteString("\n")
	_, err = io.WriteString(w.out, w.buffer.String())
	if err != nil {
		return 0, err
	}

	return len(p), nil
}
