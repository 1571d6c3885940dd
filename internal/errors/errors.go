package errors

import (
	"errors"
	"fmt"
)

var (
	ErrClosed         = errors.New("manifest: session closed")
	ErrBrokenSession  = errors.New("manifest: rewriter session broken by earlier error")
	ErrNotRewritable  = errors.New("manifest: record carries no rewrite position")
	ErrNotInsertable  = errors.New("manifest: record carries no insert position")
	ErrCommentNewline = errors.New("manifest: comment text contains newline")
)

// ScanError reports an invalid byte or codepoint sequence at a location.
type ScanError struct {
	Line   int
	Column int
	Err    error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("manifest: invalid character at %d:%d: %s", e.Line, e.Column, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func NewScan(line, column int, err error) error {
	return &ScanError{Line: line, Column: column, Err: err}
}

// ParseError reports a grammar violation in a named document.
type ParseError struct {
	Name   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("manifest: %s:%d:%d: %s", e.Name, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParse(name string, line, column int, desc string) error {
	return &ParseError{Name: name, Line: line, Column: column, Err: errors.New(desc)}
}

// SerializeError reports invalid content in a record field.
type SerializeError struct {
	Field string
	Err   error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("manifest: bad %s: %s", e.Field, e.Err)
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}

func NewSerialize(field, desc string) error {
	return &SerializeError{Field: field, Err: errors.New(desc)}
}

func IsScan(err error) bool {
	var e *ScanError
	return errors.As(err, &e)
}

func IsParse(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

func IsSerialize(err error) bool {
	var e *SerializeError
	return errors.As(err, &e)
}
