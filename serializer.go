package manifest

import (
	"io"

	"github.com/packtext/manifest/internal/serial"
)

// Serializer renders records to manifest text.
type Serializer struct {
	s *serial.Serializer
}

// NewSerializer creates a serializer writing to w.
func NewSerializer(w io.Writer, opts *WriteOptions) *Serializer {
	return &Serializer{s: serial.NewSerializer(w, opts.getMaxLineWidth(), opts.getLongValues())}
}

// Next emits one physical record. An empty name performs sentinel
// bookkeeping instead of writing an ordinary record: a non-empty value
// starts a document with its version line (closing any open one first),
// an empty value writes the end marker of the open document.
func (s *Serializer) Next(name, value string) error {
	return s.s.Next(name, value)
}

// Comment emits a '#'-prefixed, newline-terminated comment line.
func (s *Serializer) Comment(text string) error {
	return s.s.Comment(text)
}

// Offset returns the number of bytes written so far.
func (s *Serializer) Offset() int64 {
	return s.s.Offset()
}

// Err returns the sticky write error, if any.
func (s *Serializer) Err() error {
	return s.s.Err()
}
