package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
	ansiBold  = "\033[1m"
)

// Printer renders errors for a terminal.
type Printer struct {
	// Color enables ANSI escapes.
	Color bool

	// Width is the column at which details wrap. Zero means 70.
	Width int
}

func (p Printer) paint(code, text string) string {
	if !p.Color {
		return text
	}
	return code + text + ansiReset
}

// Fprint writes err to w. A *VangoError anywhere in the chain is printed
// with its detail, hint and documentation link; any other error is printed
// on one line.
func (p Printer) Fprint(w io.Writer, err error) error {
	var ve *VangoError
	if !stderrors.As(err, &ve) {
		_, werr := fmt.Fprintf(w, "%s %s\n", p.paint(ansiRed+ansiBold, "ERROR:"), err)
		return werr
	}
	_, werr := io.WriteString(w, p.Format(ve))
	return werr
}

// Format returns the multi-line rendering of e.
func (p Printer) Format(e *VangoError) string {
	var b strings.Builder

	head := "ERROR:"
	if e.Code != "" {
		head = "ERROR " + e.Code + ":"
	}
	fmt.Fprintf(&b, "%s %s\n", p.paint(ansiRed+ansiBold, head), e.Message)

	if e.Component != "" {
		fmt.Fprintf(&b, "\n  %s\n", p.paint(ansiCyan, "in "+e.Component))
	}

	width := p.Width
	if width <= 0 {
		width = 70
	}
	if lines := wrapText(e.Detail, width); len(lines) > 0 {
		b.WriteString("\n")
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  %s%s\n", p.paint(ansiCyan, "Hint: "), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "\n  %s%s\n", p.paint(ansiGray, "Learn more: "), p.paint(ansiBlue, e.DocURL))
	}

	return b.String()
}

// wrapText splits text into lines of at most width columns, breaking on
// spaces. A single word longer than width gets its own line.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}
	for _, word := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(word) > width {
			lines = append(lines, word)
			continue
		}
		*last += " " + word
	}
	return lines
}
