package manifest

// Filter decides whether a parsed record is handed to the caller; rejected
// records are skipped transparently. The filter sees sentinel records too.
// Rejecting the end-of-stream sentinel makes Parser.Next spin forever; it
// is the caller's job to keep the filter from doing that.
type Filter interface {
	Accept(r *Record) bool
}
