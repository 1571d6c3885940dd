// Package scan reads a byte stream as positioned characters with one level
// of pushback. Carriage returns are normalized away so consumers only ever
// see '\n' line terminators, while byte offsets keep pointing into the raw
// document so records can be spliced in place later.
package scan

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/packtext/manifest/internal/errors"
)

// EOF is the codepoint carried by characters read past end-of-document.
const EOF rune = -1

// Char is one scanned character: a codepoint (or EOF), its 1-based line and
// column, and the absolute byte offset of its first byte in the document.
// For a normalized line terminator the offset points at the first byte of
// the CR/LF run and the following character accounts for the whole run.
type Char struct {
	R      rune
	Line   int
	Column int
	Pos    int64
}

// EOF reports whether c marks end-of-document.
func (c Char) EOF() bool {
	return c.R == EOF
}

// Validator is the capability consulted for every decoded codepoint. An
// invalid byte sequence is presented as utf8.RuneError; returning an error
// stops the scan at that character without consuming it.
type Validator interface {
	Validate(r rune) error
}

type utf8Validator struct{}

func (utf8Validator) Validate(r rune) error {
	if r == utf8.RuneError {
		return errs("invalid UTF-8 sequence")
	}
	return nil
}

// UTF8Validator rejects byte sequences that do not decode as UTF-8.
var UTF8Validator Validator = utf8Validator{}

type errs string

func (e errs) Error() string { return string(e) }

// Scanner reads characters from an underlying reader. A nil validator
// passes undecodable bytes through one byte at a time.
type Scanner struct {
	r    *bufio.Reader
	v    Validator
	line int
	col  int
	pos  int64
	eof  bool

	pushed bool
	hold   Char
}

func NewScanner(r io.Reader, v Validator) *Scanner {
	return &Scanner{r: bufio.NewReader(r), v: v, line: 1, col: 1}
}

// Get consumes and returns the next character. Reading past
// end-of-document keeps returning EOF characters without touching the
// underlying reader again.
func (s *Scanner) Get() (Char, error) {
	if s.pushed {
		s.pushed = false
		return s.hold, nil
	}
	return s.read()
}

// Peek returns the next character without consuming it.
func (s *Scanner) Peek() (Char, error) {
	if s.pushed {
		return s.hold, nil
	}
	c, err := s.read()
	if err != nil {
		return c, err
	}
	s.pushed = true
	s.hold = c
	return c, nil
}

// Unget pushes c back so the next Peek or Get returns it again. Only the
// character most recently obtained from Get may be pushed back, and only
// one at a time.
func (s *Scanner) Unget(c Char) {
	s.pushed = true
	s.hold = c
}

func (s *Scanner) read() (Char, error) {
	if s.eof {
		return Char{R: EOF, Line: s.line, Column: s.col, Pos: s.pos}, nil
	}
	b, err := s.r.Peek(utf8.UTFMax)
	if len(b) == 0 {
		if err == io.EOF {
			s.eof = true
			return Char{R: EOF, Line: s.line, Column: s.col, Pos: s.pos}, nil
		}
		return Char{}, err
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size == 1 {
		if s.v != nil {
			if verr := s.v.Validate(r); verr != nil {
				return Char{}, errors.NewScan(s.line, s.col, verr)
			}
		}
		// Permissive: pass the raw byte through as its own character.
		r = rune(b[0])
	} else if s.v != nil {
		if verr := s.v.Validate(r); verr != nil {
			return Char{}, errors.NewScan(s.line, s.col, verr)
		}
	}
	c := Char{R: r, Line: s.line, Column: s.col, Pos: s.pos}
	s.r.Discard(size)
	s.pos += int64(size)
	if r == '\r' {
		s.normalizeCR()
		c.R = '\n'
		r = '\n'
	}
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c, nil
}

// normalizeCR consumes the remainder of a CR, CR-CR*-LF or bare CR line
// terminator whose first CR has already been consumed.
func (s *Scanner) normalizeCR() {
	for {
		b, _ := s.r.Peek(1)
		if len(b) == 0 || b[0] != '\r' {
			break
		}
		s.r.Discard(1)
		s.pos++
	}
	b, _ := s.r.Peek(1)
	if len(b) > 0 && b[0] == '\n' {
		s.r.Discard(1)
		s.pos++
	}
}
