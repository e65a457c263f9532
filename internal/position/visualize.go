package position

import (
	"fmt"
	"strings"
)

// Highlight renders the source line holding pos with a caret marker under
// the highlighted columns. width is the number of bytes to underline; a
// width below one still draws a single caret.
func Highlight(buf []byte, pos Position, width int) string {
	if !pos.IsValid() {
		return ""
	}

	start, end := LineBounds(buf, pos.Offset)
	line := strings.TrimRight(string(buf[start:end]), "\r")

	var result strings.Builder

	gutter := fmt.Sprintf("%4d | ", pos.Line)
	result.WriteString(gutter)
	result.WriteString(line)
	result.WriteString("\n")
	result.WriteString(strings.Repeat(" ", len(gutter)-2))
	result.WriteString("| ")

	// Keep tabs so the caret lines up with the source line.
	for i := 1; i < pos.Column && i <= len(line); i++ {
		if line[i-1] == '\t' {
			result.WriteByte('\t')
		} else {
			result.WriteByte(' ')
		}
	}

	if width < 1 {
		width = 1
	}
	if rest := len(line) - (pos.Column - 1); width > rest && rest > 0 {
		width = rest
	}
	result.WriteString(strings.Repeat("^", width))

	return result.String()
}
