package manifest

import (
	"io"

	"github.com/packtext/manifest/internal/parse"
	"github.com/packtext/manifest/internal/scan"
)

// Parser reads positioned records from a manifest byte stream.
type Parser struct {
	p *parse.Parser
}

// NewParser creates a parser reading from r. name identifies the document
// in diagnostics.
func NewParser(name string, r io.Reader, opts *ParseOptions) *Parser {
	ropts := convertParseOptions(opts)
	s := scan.NewScanner(r, ropts.Validator)
	return &Parser{p: parse.NewParser(name, s, ropts.Filter)}
}

// Next returns the next record. A sentinel record (Empty() == true) ends
// the current document; a second consecutive one ends the stream, after
// which Next keeps returning sentinels.
func (p *Parser) Next() (Record, error) {
	return p.p.Next()
}

// Version returns the format version of the document currently being
// parsed, or "" before the first version sentinel.
func (p *Parser) Version() string {
	return p.p.Version()
}
