// Package parse turns a scanned character stream into positioned manifest
// records.
package parse

import (
	"strings"

	"github.com/packtext/manifest/internal/errors"
	"github.com/packtext/manifest/internal/record"
	"github.com/packtext/manifest/internal/scan"
)

// Filter decides whether a parsed record is handed to the caller. Rejected
// records are skipped transparently. The filter sees sentinel records too;
// rejecting the end-of-stream sentinel makes Next spin forever, which the
// caller must avoid.
type Filter interface {
	Accept(r *record.Record) bool
}

type state int

const (
	stateStart state = iota // expects the version sentinel of a document
	stateBody               // yields records until the end sentinel
	stateEnd                // another document may follow
)

// Parser reads one record per Next call. Once Next returns an error every
// later call returns the same error.
type Parser struct {
	name    string
	s       *scan.Scanner
	filter  Filter
	state   state
	version string
	err     error

	lineStart int64 // offset of the first character of the current line
}

// NewParser creates a parser over s for the document called name; name only
// appears in diagnostics. filter may be nil.
func NewParser(name string, s *scan.Scanner, filter Filter) *Parser {
	return &Parser{name: name, s: s, filter: filter}
}

// Version returns the format version of the document currently being
// parsed, or "" before the first version sentinel has been read.
func (p *Parser) Version() string {
	return p.version
}

// Next returns the next record. Sentinel records (Empty() == true) mark
// document boundaries: one ends a document, a second consecutive one ends
// the stream.
func (p *Parser) Next() (record.Record, error) {
	if p.err != nil {
		return record.Record{}, p.err
	}
	for {
		rec, err := p.step()
		if err != nil {
			p.err = err
			return record.Record{}, err
		}
		if p.filter != nil && !p.filter.Accept(&rec) {
			continue
		}
		return rec, nil
	}
}

func (p *Parser) step() (record.Record, error) {
	switch p.state {
	case stateStart:
		return p.stepStart()
	case stateBody:
		return p.stepBody()
	default:
		return p.stepEnd()
	}
}

func (p *Parser) stepStart() (record.Record, error) {
	c, err := p.skipBlank()
	if err != nil {
		return record.Record{}, err
	}
	if c.EOF() {
		// Empty stream: the end-of-stream sentinel, now and forever.
		p.state = stateEnd
		return record.Record{}, nil
	}
	return p.parseVersion(c)
}

func (p *Parser) stepEnd() (record.Record, error) {
	c, err := p.skipBlank()
	if err != nil {
		return record.Record{}, err
	}
	if c.EOF() {
		// Second consecutive sentinel: end of stream.
		return record.Record{}, nil
	}
	return p.parseVersion(c)
}

// parseVersion parses a document's version sentinel line ":<version>"
// starting at c, the first significant character of the document.
func (p *Parser) parseVersion(c scan.Char) (record.Record, error) {
	if c.R != ':' {
		return record.Record{}, p.errorAt(c, "expected document start ':'")
	}
	p.s.Unget(c)
	rec, err := p.parsePair()
	if err != nil {
		return record.Record{}, err
	}
	if rec.Value == "" {
		return record.Record{}, errors.NewParse(p.name, rec.NameLine, rec.NameColumn, "missing format version")
	}
	p.version = rec.Value
	p.state = stateBody
	return rec, nil
}

// stepBody scans past insignificant blanks and comments to the next record
// of the current document. A single blank line between records carries no
// meaning; two consecutive blank lines (or end-of-document) terminate the
// document. A comment line resets the blank count.
func (p *Parser) stepBody() (record.Record, error) {
	blank := 0
	for {
		c, err := p.s.Peek()
		if err != nil {
			return record.Record{}, err
		}
		switch {
		case c.EOF():
			p.state = stateEnd
			return record.Record{}, nil
		case c.R == ' ' || c.R == '\t':
			p.s.Get()
		case c.R == '\n':
			// Every newline met here closes a whitespace-only line:
			// anything else would have left this loop already.
			p.s.Get()
			if err := p.markLineStart(); err != nil {
				return record.Record{}, err
			}
			blank++
			if blank == 2 {
				p.state = stateEnd
				return record.Record{}, nil
			}
		case c.R == '#':
			if err := p.skipComment(); err != nil {
				return record.Record{}, err
			}
			blank = 0
		case c.R == ':':
			return record.Record{}, p.errorAt(c, "empty name")
		default:
			return p.parsePair()
		}
	}
}

// skipBlank consumes whitespace and comment lines and returns the first
// significant character, consumed.
func (p *Parser) skipBlank() (scan.Char, error) {
	for {
		c, err := p.s.Get()
		if err != nil {
			return scan.Char{}, err
		}
		switch {
		case c.R == ' ' || c.R == '\t':
		case c.R == '\n':
			if err := p.markLineStart(); err != nil {
				return scan.Char{}, err
			}
		case c.R == '#':
			// Comments are recognized only as the first non-blank token
			// of a line, which is the only place this loop can stand.
			p.s.Unget(c)
			if err := p.skipComment(); err != nil {
				return scan.Char{}, err
			}
		default:
			return c, nil
		}
	}
}

// skipComment consumes a comment through its terminating newline.
func (p *Parser) skipComment() error {
	for {
		c, err := p.s.Get()
		if err != nil {
			return err
		}
		if c.EOF() {
			return nil
		}
		if c.R == '\n' {
			return p.markLineStart()
		}
	}
}

// markLineStart records the offset of the character following a just
// consumed newline.
func (p *Parser) markLineStart() error {
	c, err := p.s.Peek()
	if err != nil {
		return err
	}
	p.lineStart = c.Pos
	return nil
}

func (p *Parser) errorAt(c scan.Char, desc string) error {
	return errors.NewParse(p.name, c.Line, c.Column, desc)
}

// parsePair parses one name/value pair starting at the current character,
// the first non-blank character of the record.
func (p *Parser) parsePair() (record.Record, error) {
	var rec record.Record
	rec.StartPos = p.lineStart

	// Name: everything up to the separating ':', surrounding ASCII
	// whitespace stripped. The blank skipping before this call already
	// removed the leading run.
	var name strings.Builder
	first, err := p.s.Peek()
	if err != nil {
		return rec, err
	}
	rec.NameLine = first.Line
	rec.NameColumn = first.Column
	for {
		c, err := p.s.Get()
		if err != nil {
			return rec, err
		}
		if c.EOF() || c.R == '\n' {
			return rec, p.errorAt(c, "missing ':' separator")
		}
		if c.R == ':' {
			rec.ColonPos = c.Pos
			break
		}
		name.WriteRune(c.R)
	}
	rec.Name = strings.TrimRight(name.String(), " \t")

	// Value: single-line unless the remainder of the line is a bare
	// continuation marker. At most one space after the ':' separates and
	// is not part of the value.
	c, err := p.s.Peek()
	if err != nil {
		return rec, err
	}
	if c.R == ' ' {
		p.s.Get()
		c, err = p.s.Peek()
		if err != nil {
			return rec, err
		}
	}
	rec.ValueLine = c.Line
	rec.ValueColumn = c.Column

	var raw strings.Builder
	var end int64
	for {
		c, err := p.s.Get()
		if err != nil {
			return rec, err
		}
		if c.EOF() {
			end = c.Pos
			break
		}
		if c.R == '\n' {
			end = c.Pos
			if err := p.markLineStart(); err != nil {
				return rec, err
			}
			break
		}
		raw.WriteRune(c.R)
	}

	line := strings.TrimRight(raw.String(), " \t")
	if line == record.ContinuationLine {
		return p.parseLongValue(rec)
	}
	if record.BareContinuation(line) {
		return rec, errors.NewParse(p.name, rec.ValueLine, rec.ValueColumn, "unexpected continuation marker at end of line")
	}
	value, err := record.Unescape(line)
	if err != nil {
		return rec, errors.NewParse(p.name, rec.ValueLine, rec.ValueColumn, err.Error())
	}
	rec.Value = value
	rec.EndPos = end
	return rec, nil
}

// parseLongValue collects the physical lines of a multi-line value. Lines
// are taken verbatim until one consisting solely of the continuation marker
// terminates the value without belonging to it.
func (p *Parser) parseLongValue(rec record.Record) (record.Record, error) {
	var lines []string
	var cur strings.Builder
	started := false
	for {
		c, err := p.s.Get()
		if err != nil {
			return rec, err
		}
		if c.EOF() {
			if cur.String() == record.ContinuationLine {
				rec.EndPos = c.Pos
				rec.Value = strings.Join(lines, "\n")
				return rec, nil
			}
			return rec, p.errorAt(c, "unterminated multi-line value")
		}
		if !started {
			rec.ValueLine = c.Line
			rec.ValueColumn = c.Column
			started = true
		}
		if c.R == '\n' {
			if cur.String() == record.ContinuationLine {
				rec.EndPos = c.Pos
				rec.Value = strings.Join(lines, "\n")
				return rec, p.markLineStart()
			}
			lines = append(lines, cur.String())
			cur.Reset()
			if err := p.markLineStart(); err != nil {
				return rec, err
			}
			continue
		}
		cur.WriteRune(c.R)
	}
}
