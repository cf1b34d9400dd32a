// Package token implements the coil tokeniser: it splits each input
// line on whitespace after stripping a // comment, with one documented
// exception — the tail of a print or set line may be a double-quoted
// string literal taken verbatim to end-of-line.
package token

import "strings"

// Line is one tokenised, non-blank source line. Blank and comment-only
// lines are dropped by Tokenize but never perturb Number for the lines
// that survive.
type Line struct {
	Number int      // 1-based source line number
	Words  []string // whitespace-split lexemes, opcode first
	String *string  // non-nil when the line carries a quoted string tail
}

// Raw returns the whole token line as a single slice, with the string
// tail (if any) appended as its final element. Lowering never needs to
// special-case the two shapes this way.
func (l Line) Raw() []string {
	if l.String == nil {
		return l.Words
	}
	out := make([]string, 0, len(l.Words)+1)
	out = append(out, l.Words...)
	out = append(out, *l.String)
	return out
}

// Tokenize splits src into Lines, dropping blank and comment-only
// lines. Line numbers in the result refer back to src's physical lines
// so diagnostics can point at the right place.
func Tokenize(src string) []Line {
	var lines []Line
	raw := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	for i, text := range raw {
		lineNo := i + 1
		stripped := stripComment(text)
		if strings.TrimSpace(stripped) == "" {
			continue
		}
		lines = append(lines, tokenizeLine(stripped, lineNo))
	}
	return lines
}

// stripComment removes a trailing // comment, unless a double quote
// appears earlier on the line than the comment marker — once a quote
// has been opened, everything to end-of-line (including any further
// "//") belongs to the string tail, per the documented quirk that an
// unterminated quote is accepted as-is.
func stripComment(text string) string {
	ci := strings.Index(text, "//")
	if ci < 0 {
		return text
	}
	qi := strings.IndexByte(text, '"')
	if qi >= 0 && qi < ci {
		return text
	}
	return text[:ci]
}

// tokenizeLine whitespace-splits a comment-stripped line, special
// casing print/set lines whose first operand begins a quoted string.
func tokenizeLine(text string, lineNo int) Line {
	words := strings.Fields(text)
	if len(words) == 0 {
		return Line{Number: lineNo}
	}
	op := words[0]
	if op == "print" || op == "set" {
		if qi := strings.IndexByte(text, '"'); qi >= 0 {
			head := strings.Fields(text[:qi])
			tail := text[qi:]
			return Line{Number: lineNo, Words: head, String: &tail}
		}
	}
	return Line{Number: lineNo, Words: words}
}
