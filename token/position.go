package token

import (
	"strings"
)

// Caret renders a source line with a caret marker pointing at the given
// 1-indexed column. Every user-facing error in the pipeline attaches one
// of these excerpts under its message:
//
//	    x = y @ 2;
//	          ^
func Caret(sourceLine string, column int) string {
	if column < 1 {
		column = 1
	}
	var builder strings.Builder
	builder.WriteString("    ")
	builder.WriteString(sourceLine)
	builder.WriteString("\n    ")
	for i, char := range sourceLine {
		if i >= column-1 {
			break
		}
		// keep tabs so the caret lines up with the excerpt
		if char == '\t' {
			builder.WriteRune('\t')
		} else {
			builder.WriteRune(' ')
		}
	}
	builder.WriteString("^")
	return builder.String()
}

// Lines splits source text into its lines without the trailing newline
// characters, for error excerpts.
func Lines(source string) []string {
	return strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
}

// LineAt returns the 1-indexed line from the given line slice, or an
// empty string when the index is out of range.
func LineAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
