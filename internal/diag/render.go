package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// lineCol converts a byte offset within src to a 1-based (line, column),
// where column counts bytes within the line (§6.4).
func lineCol(src []byte, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// sourceLine returns the bytes of the 1-based line n, without its
// terminator.
func sourceLine(src []byte, n int) string {
	line := 1
	start := 0
	for i, b := range src {
		if line == n {
			start = i
			for start < len(src) && line == n {
				break
			}
			break
		}
		if b == '\n' {
			line++
		}
	}
	if line != n {
		return ""
	}
	end := start
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return string(src[start:end])
}

// Renderer renders diagnostics against a named set of source buffers,
// rustc-style: a coded header, an arrow-origin line, a two-line gutter with
// a caret span, and an optional help note.
type Renderer struct {
	Sources map[string][]byte
	NoColor bool
}

// NewRenderer builds a Renderer; noColor mirrors AXIOM_NO_COLOR and a
// non-tty destination — see cmd/axiom for how that's decided.
func NewRenderer(sources map[string][]byte, noColor bool) *Renderer {
	return &Renderer{Sources: sources, NoColor: noColor}
}

func (r *Renderer) colorize(c *color.Color, s string) string {
	if r.NoColor {
		return s
	}
	return c.Sprint(s)
}

// Render writes the full rendering of d to w. Rendering is a pure function
// of the diagnostic and the source buffer, and is idempotent: rendering a
// rendered diagnostic's plain-text message through the formatter again
// changes nothing, since Render never mutates d.
func (r *Renderer) Render(w io.Writer, d *Diagnostic) {
	errHdr := color.New(color.FgRed, color.Bold)
	locHdr := color.New(color.FgBlue, color.Bold)
	helpHdr := color.New(color.FgGreen, color.Bold)

	fmt.Fprintf(w, "%s: %s\n", r.colorize(errHdr, fmt.Sprintf("error[%s]", d.Code)), d.Message)

	src := r.Sources[d.Primary.File]
	line, col := lineCol(src, d.Primary.Start)
	fmt.Fprintf(w, "%s%s:%d:%d\n", r.colorize(locHdr, "  --> "), d.Primary.File, line, col)

	r.renderGutter(w, d.Primary, src)

	for _, lbl := range d.Secondary {
		lsrc := r.Sources[lbl.Span.File]
		r.renderGutter(w, lbl.Span, lsrc)
		fmt.Fprintf(w, "  %s\n", lbl.Text)
	}

	if d.Help != "" {
		fmt.Fprintf(w, "%s %s\n", r.colorize(helpHdr, "= help:"), d.Help)
	}
}

func (r *Renderer) renderGutter(w io.Writer, span Span, src []byte) {
	line, col := lineCol(src, span.Start)
	text := sourceLine(src, line)
	gutter := fmt.Sprintf("%d", line)
	fmt.Fprintf(w, "%s | %s\n", gutter, text)

	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	pad := strings.Repeat(" ", len(gutter)) + " | " + strings.Repeat(" ", col-1)
	caret := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(w, "%s%s\n", pad, r.colorize(caret, strings.Repeat("^", width)))
}

// RenderString renders d to a string, for tests and callers that want to
// buffer output before writing it.
func (r *Renderer) RenderString(d *Diagnostic) string {
	var b strings.Builder
	r.Render(&b, d)
	return b.String()
}
