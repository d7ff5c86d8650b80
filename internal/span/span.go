// Package span holds the source-position types threaded through every
// compiler stage so diagnostics can always point back to the original text.
package span

import "fmt"

// Position is a single point in source text, 1-indexed for line/column.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// InputSpan is a half-open range of source text, carried by every PreExp
// node and by every compound diagnostic.
type InputSpan struct {
	Start Position
	End   Position
}

func (s InputSpan) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Join returns the smallest span covering both a and b.
func Join(a, b InputSpan) InputSpan {
	start := a.Start
	if b.Start.Offset < a.Start.Offset {
		start = b.Start
	}
	end := a.End
	if b.End.Offset > a.End.Offset {
		end = b.End
	}
	return InputSpan{Start: start, End: end}
}

// Spanned pairs a value with the span of source text it was parsed from.
type Spanned[T any] struct {
	Value T
	Span  InputSpan
}

func New[T any](value T, sp InputSpan) Spanned[T] {
	return Spanned[T]{Value: value, Span: sp}
}

// Snippet extracts the source line(s) covered by sp from the full source
// text, used by error rendering to show the offending text.
func Snippet(source string, sp InputSpan) string {
	lines := splitLines(source)
	if sp.Start.Line < 1 || sp.Start.Line > len(lines) {
		return ""
	}
	if sp.Start.Line == sp.End.Line {
		return lines[sp.Start.Line-1]
	}
	out := ""
	for l := sp.Start.Line; l <= sp.End.Line && l <= len(lines); l++ {
		if l > sp.Start.Line {
			out += "\n"
		}
		out += lines[l-1]
	}
	return out
}

func splitLines(source string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lines = append(lines, source[start:i])
			start = i + 1
		}
	}
	lines = append(lines, source[start:])
	return lines
}
