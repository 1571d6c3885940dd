// Package manifest reads, writes and surgically edits the structured
// name/value text format used for package and project metadata.
//
// A document starts with a version sentinel line ":<version>", carries one
// "name: value" record per line (long or multi-line values are bracketed by
// continuation marker lines), and ends at two consecutive blank lines or at
// end of input. Comment lines start with '#'. Parsed records remember the
// exact byte positions of their pieces, which lets a Rewriter replace a
// value or insert a record on disk while leaving every unrelated byte,
// comments and spacing included, untouched.
package manifest

import (
	"io"

	"github.com/packtext/manifest/internal/record"
)

// Record is one positioned name/value pair of a document. A record with
// both name and value empty is a sentinel marking a document or stream
// boundary.
type Record = record.Record

// Parse drains one parser over r and returns every record up to
// end-of-stream, document sentinels included.
func Parse(name string, r io.Reader, opts *ParseOptions) ([]Record, error) {
	p := NewParser(name, r, opts)
	var recs []Record
	empties := 0
	for {
		rec, err := p.Next()
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
		if rec.Empty() {
			empties++
			if empties == 2 {
				return recs, nil
			}
		} else {
			empties = 0
		}
	}
}
