package export

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Summary writes a short human-readable account of each model.
type Summary struct {
	title *color.Color
	label *color.Color
	warn  *color.Color
	fail  *color.Color
}

// NewSummary creates a summary writer, with ANSI colours when enabled.
func NewSummary(enabled bool) *Summary {
	s := &Summary{
		title: color.New(color.FgCyan, color.Bold),
		label: color.New(color.Faint),
		warn:  color.New(color.FgYellow, color.Bold),
		fail:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{s.title, s.label, s.warn, s.fail} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Write renders one document.
func (s *Summary) Write(w io.Writer, doc *Document) error {
	ew := &errWriter{w: w}
	ew.printf("%s %s\n", s.title.Sprint("model"), doc.Name)
	s.field(ew, "formula", doc.Formula)
	if doc.Error != "" {
		ew.printf("  %s %s\n\n", s.fail.Sprint("error"), doc.Error)
		return ew.err
	}

	s.field(ew, "expanded", doc.Expanded)
	if doc.Fixed != nil {
		s.field(ew, "fixed", fmt.Sprintf("%s (%d rows x %d columns, %d data rows)",
			doc.Fixed.Formula, len(doc.Fixed.Rows), len(doc.Fixed.Columns), len(doc.Fixed.Index)))
	}
	if doc.Random != nil {
		s.field(ew, "pooling", doc.Random.Formula)
	}
	if doc.Effects != nil {
		for _, g := range doc.Effects.Groups {
			n := len(doc.Effects.Members(g))
			s.field(ew, "group", fmt.Sprintf("%s (%d effects)", g, n))
		}
	}
	for _, d := range doc.Diagnostics {
		ew.printf("  %s %s: %s\n", s.warn.Sprint("warning"), d.Term, d.Message)
	}
	ew.printf("\n")
	return ew.err
}

func (s *Summary) field(ew *errWriter, name, value string) {
	ew.printf("  %s %s\n", s.label.Sprintf("%-8s", name), value)
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// ColorMode values accepted by ResolveColor.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// ResolveColor decides whether output to w is coloured. In auto mode w
// must be a terminal and NO_COLOR must be unset.
func ResolveColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case ColorOn:
		return true, nil
	case ColorOff:
		return false, nil
	case ColorAuto, "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color mode %q: must be auto, on or off", mode)
	}
}
