// Package serial renders name/value records to manifest text.
package serial

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/packtext/manifest/internal/errors"
	"github.com/packtext/manifest/internal/record"
)

// Serializer writes one physical record per Next call. Once a write fails
// every later call returns the same error.
type Serializer struct {
	w          io.Writer
	width      int  // soft line limit in codepoints
	longValues bool // force the multi-line form for every value
	inDocument bool
	offset     int64
	err        error
}

// NewSerializer creates a serializer writing to w. width is the soft line
// limit in codepoints; longValues forces the multi-line value form.
func NewSerializer(w io.Writer, width int, longValues bool) *Serializer {
	return &Serializer{w: w, width: width, longValues: longValues}
}

// Err returns the sticky error, if any.
func (s *Serializer) Err() error {
	return s.err
}

// Offset returns the number of bytes written so far.
func (s *Serializer) Offset() int64 {
	return s.offset
}

// Next emits one record. An empty name performs sentinel bookkeeping
// instead: a non-empty value opens a document with its version line
// (closing any open one first), an empty value closes the open document.
func (s *Serializer) Next(name, value string) error {
	if s.err != nil {
		return s.err
	}
	if name == "" {
		return s.sentinel(value)
	}
	if err := validateName(name); err != nil {
		return err
	}
	rendered, err := Value(name, value, s.width, s.longValues)
	if err != nil {
		return err
	}
	return s.write(name + ":" + rendered + "\n")
}

// Comment emits a '#'-prefixed, newline-terminated line.
func (s *Serializer) Comment(text string) error {
	if s.err != nil {
		return s.err
	}
	if strings.ContainsAny(text, "\n\r") {
		return errors.ErrCommentNewline
	}
	if !utf8.ValidString(text) {
		return errors.NewSerialize("comment", "invalid UTF-8")
	}
	if text == "" {
		return s.write("#\n")
	}
	return s.write("# " + text + "\n")
}

func (s *Serializer) sentinel(version string) error {
	if s.inDocument {
		// Two blank lines close the document so that appended text,
		// another document included, re-parses at a boundary.
		if err := s.write("\n\n"); err != nil {
			return err
		}
		s.inDocument = false
	}
	if version == "" {
		return nil
	}
	if err := validateValue(version); err != nil {
		return err
	}
	if strings.Contains(version, "\n") {
		return errors.NewSerialize("version", "contains newline")
	}
	if err := s.write(":" + record.Escape(version) + "\n"); err != nil {
		return err
	}
	s.inDocument = true
	return nil
}

func (s *Serializer) write(text string) error {
	n, err := io.WriteString(s.w, text)
	s.offset += int64(n)
	if err != nil {
		s.err = err
	}
	return err
}

// Value validates value and renders everything that follows a record's ':'
// separator, without the terminating newline. The single-line form is used
// when the value has no newline, long mode is off, and the whole line fits
// within width codepoints; otherwise the multi-line form carries the raw
// value verbatim between continuation marker lines.
func Value(name, value string, width int, long bool) (string, error) {
	if err := validateValue(value); err != nil {
		return "", err
	}
	if !long && !strings.Contains(value, "\n") {
		esc := record.Escape(value)
		// name + ':' + ' ' + escaped value, counted in codepoints.
		if utf8.RuneCountInString(name)+2+utf8.RuneCountInString(esc) <= width {
			return " " + esc, nil
		}
	}
	for _, line := range strings.Split(value, "\n") {
		if line == record.ContinuationLine {
			return "", errors.NewSerialize("value", "line indistinguishable from continuation marker")
		}
	}
	return record.ContinuationLine + "\n" + value + "\n" + record.ContinuationLine, nil
}

// Record renders a complete "name:value" physical record without the
// terminating newline, for callers that splice records into an existing
// document.
func Record(name, value string, width int, long bool) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	rendered, err := Value(name, value, width, long)
	if err != nil {
		return "", err
	}
	return name + ":" + rendered, nil
}

func validateName(name string) error {
	if name == "" {
		return errors.NewSerialize("name", "empty name")
	}
	if !utf8.ValidString(name) {
		return errors.NewSerialize("name", "invalid UTF-8")
	}
	if strings.ContainsAny(name, ":\n\r\t") {
		return errors.NewSerialize("name", "contains reserved character")
	}
	if name != strings.Trim(name, " ") {
		return errors.NewSerialize("name", "leading or trailing whitespace")
	}
	if name[0] == '#' {
		return errors.NewSerialize("name", "would parse as a comment")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return errors.NewSerialize("name", "contains control character")
		}
	}
	return nil
}

func validateValue(value string) error {
	if !utf8.ValidString(value) {
		return errors.NewSerialize("value", "invalid UTF-8")
	}
	if strings.Contains(value, "\r") {
		return errors.NewSerialize("value", "contains carriage return")
	}
	return nil
}
