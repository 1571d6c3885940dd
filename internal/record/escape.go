package record

import (
	"errors"
	"fmt"
	"strings"
)

// Wire markers. Continuation opens and closes a multi-line value encoding;
// the others appear only behind the escape character in single-line values.
const (
	Continuation = '\\'

	escSpace = '_' // space at a value edge
	escTab   = 't' // tab at a value edge
	escBlank = '-' // the whole value is empty
)

// ContinuationLine is a physical line consisting solely of the continuation
// marker; it opens (after a ':') and terminates a multi-line value.
const ContinuationLine = string(Continuation)

var ErrDanglingEscape = errors.New("dangling escape character")

// Escape renders value for single-line transport. Backslashes are doubled
// everywhere; a space or tab at either edge of the value is replaced by its
// marker so the parser's whitespace trimming cannot eat it; an empty value
// becomes the blank marker. Unescape inverts Escape exactly.
func Escape(value string) string {
	if value == "" {
		return string(Continuation) + string(escBlank)
	}
	s := strings.ReplaceAll(value, `\`, `\\`)
	switch s[0] {
	case ' ':
		s = string(Continuation) + string(escSpace) + s[1:]
	case '\t':
		s = string(Continuation) + string(escTab) + s[1:]
	}
	switch last := len(s) - 1; s[last] {
	case ' ':
		s = s[:last] + string(Continuation) + string(escSpace)
	case '\t':
		s = s[:last] + string(Continuation) + string(escTab)
	}
	return s
}

// Unescape decodes a single-line transported value. Unknown escape
// sequences and a dangling escape character are errors rather than being
// passed through.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, Continuation) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != Continuation {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(s) {
			return "", ErrDanglingEscape
		}
		switch s[i] {
		case Continuation:
			b.WriteByte(Continuation)
		case escSpace:
			b.WriteByte(' ')
		case escTab:
			b.WriteByte('\t')
		case escBlank:
			// Decodes to nothing.
		default:
			return "", fmt.Errorf("unknown escape sequence %q", s[i-1:i+1])
		}
	}
	return b.String(), nil
}

// BareContinuation reports whether s ends in an unescaped continuation
// marker, i.e. whether the trailing run of backslashes has odd length.
func BareContinuation(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == Continuation; i-- {
		n++
	}
	return n%2 == 1
}
