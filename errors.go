package manifest

import "github.com/packtext/manifest/internal/errors"

var (
	ErrClosed        = errors.ErrClosed        // rewriter session closed
	ErrBrokenSession = errors.ErrBrokenSession // earlier edit failed, see Rewriter.Err
	ErrNotRewritable = errors.ErrNotRewritable // record has no known colon position
	ErrNotInsertable = errors.ErrNotInsertable // record has no known end position
)

// ScanError reports an invalid byte or codepoint sequence at a location.
type ScanError = errors.ScanError

// ParseError reports a manifest grammar violation with the document name
// and location.
type ParseError = errors.ParseError

// SerializeError reports invalid name or value content.
type SerializeError = errors.SerializeError

// IsScanError returns a boolean indicating whether the error is a ScanError.
func IsScanError(err error) bool {
	return errors.IsScan(err)
}

// IsParseError returns a boolean indicating whether the error is a ParseError.
func IsParseError(err error) bool {
	return errors.IsParse(err)
}

// IsSerializeError returns a boolean indicating whether the error is a
// SerializeError.
func IsSerializeError(err error) bool {
	return errors.IsSerialize(err)
}
