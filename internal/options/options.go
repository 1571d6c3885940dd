package options

import (
	"github.com/packtext/manifest/internal/file"
	"github.com/packtext/manifest/internal/logger"
	"github.com/packtext/manifest/internal/parse"
	"github.com/packtext/manifest/internal/scan"
)

const (
	// DefaultMaxLineWidth is the soft single-line limit, in codepoints,
	// counting name, separator and escaped value.
	DefaultMaxLineWidth = 78
)

// Options is the resolved form of the public option structs.
type Options struct {
	FileSystem   file.FileSystem
	Logger       logger.LogCloser
	MaxLineWidth int
	LongValues   bool
}

// ParseOptions is the resolved form of the public parse options.
type ParseOptions struct {
	Filter    parse.Filter
	Validator scan.Validator
}

var DefaultOptions = Options{
	FileSystem:   file.DefaultFileSystem,
	Logger:       logger.Discard,
	MaxLineWidth: DefaultMaxLineWidth,
}

var DefaultParseOptions = ParseOptions{}
