package ui

import (
	"encoding/json"
	"io"
)

// Severity classifies the visual weight of a piece of inline text, one per
// output method on UI. Data consumers (JSON, tests) see plain text.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green, verified / known
	SeverityWarn                     // yellow, pending / unverified
	SeverityError                    // red, not found / failed
	SeverityCritical                 // bold
)

// StyledText pairs a plain string with a Severity annotation. It marshals
// as just the plain Text.
//
//	u.Info("Label: %s", u.Style(label))
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is all terminal output of addrlens commands. Production code uses
// TerminalUI, tests use RecordingUI to capture what was shown.
//
// Use [UI.Indent] for nested blocks, e.g. the source files of a verified
// contract under its metadata.
type UI interface {
	// Style returns the text of t coloured by its Severity, or plain when
	// colours are disabled.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error does not exit, callers decide what to do next.
	Error(format string, args ...any)
	Critical(format string, args ...any)

	// Section writes a separator centred around title:
	// "===== Contract ====="
	Section(title string)

	// KeyValue renders an aligned 2-column block.
	KeyValue(rows [][2]string)

	// Table renders a bordered table with a header row. Nil headers render
	// only the rows.
	Table(headers []string, rows [][]string)

	// Spinner starts an animated spinner with msg and returns the func that
	// stops it. Non terminals print msg once.
	Spinner(msg string) func()

	// Indent returns a child UI one level deeper sharing the same output.
	Indent() UI

	// Writer returns an io.Writer that indents every line.
	Writer() io.Writer
}
