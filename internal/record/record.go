// Package record defines the name/value records a manifest document is made
// of, together with the wire markers and value escaping shared by the parser
// and the serializer.
package record

// Record is one positioned name/value pair. Offsets are absolute byte
// positions in the source document: StartPos points at the first character
// of the record's line, ColonPos at the separating ':', and EndPos at the
// terminating newline or at end-of-document. A ColonPos of zero marks a
// record whose value cannot be rewritten in place; an EndPos of zero marks
// a record that cannot anchor an insertion.
type Record struct {
	Name  string
	Value string

	NameLine    int
	NameColumn  int
	ValueLine   int
	ValueColumn int

	StartPos int64
	ColonPos int64
	EndPos   int64
}

// Empty reports whether r is a sentinel record marking a document or
// stream boundary.
func (r *Record) Empty() bool {
	return r.Name == "" && r.Value == ""
}
