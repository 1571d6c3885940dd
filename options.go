package manifest

import (
	"github.com/packtext/manifest/internal/file"
	"github.com/packtext/manifest/internal/logger"
	"github.com/packtext/manifest/internal/options"
	"github.com/packtext/manifest/internal/parse"
	"github.com/packtext/manifest/internal/scan"
)

// FileSystem is the storage collaborator documents are opened through.
type FileSystem = file.FileSystem

// Options controls a rewriter session and standalone storage helpers.
type Options struct {
	// FileSystem supplies the document storage.
	//
	// The default file system is built around the os package and locks
	// documents with flock-style exclusive locks.
	FileSystem FileSystem

	// Logger receives internal progress and error information.
	//
	// The default value discards everything.
	Logger Logger

	// MaxLineWidth is the soft single-line limit in codepoints, counting
	// name, separator and escaped value. Records that would exceed it
	// are written in the multi-line form.
	//
	// The default value is 78.
	MaxLineWidth int

	// LongValues forces the multi-line form for every value.
	LongValues bool
}

// ParseOptions controls one parser instance.
type ParseOptions struct {
	// Filter is consulted before each record is returned. A nil filter
	// accepts everything.
	Filter Filter

	// Strict rejects input that is not valid UTF-8 instead of passing
	// undecodable bytes through.
	Strict bool
}

// WriteOptions controls one serializer instance.
type WriteOptions struct {
	// MaxLineWidth is the soft single-line limit in codepoints.
	//
	// The default value is 78.
	MaxLineWidth int

	// LongValues forces the multi-line form for every value.
	LongValues bool
}

func (opts *Options) getFileSystem() file.FileSystem {
	if opts == nil || opts.FileSystem == nil {
		return file.DefaultFileSystem
	}
	return opts.FileSystem
}

func (opts *Options) getLogger() logger.LogCloser {
	if opts == nil || opts.Logger == nil {
		return logger.Discard
	}
	return logger.NopCloser(opts.Logger)
}

func (opts *Options) getMaxLineWidth() int {
	if opts == nil || opts.MaxLineWidth <= 0 {
		return options.DefaultMaxLineWidth
	}
	return opts.MaxLineWidth
}

func (opts *Options) getLongValues() bool {
	return opts != nil && opts.LongValues
}

func convertOptions(opts *Options) *options.Options {
	return &options.Options{
		FileSystem:   opts.getFileSystem(),
		Logger:       opts.getLogger(),
		MaxLineWidth: opts.getMaxLineWidth(),
		LongValues:   opts.getLongValues(),
	}
}

func (opts *ParseOptions) getFilter() parse.Filter {
	if opts == nil || opts.Filter == nil {
		return nil
	}
	return opts.Filter
}

func (opts *ParseOptions) getValidator() scan.Validator {
	if opts == nil || !opts.Strict {
		return nil
	}
	return scan.UTF8Validator
}

func convertParseOptions(opts *ParseOptions) *options.ParseOptions {
	ropts := options.DefaultParseOptions
	ropts.Filter = opts.getFilter()
	ropts.Validator = opts.getValidator()
	return &ropts
}

func (opts *WriteOptions) getMaxLineWidth() int {
	if opts == nil || opts.MaxLineWidth <= 0 {
		return options.DefaultMaxLineWidth
	}
	return opts.MaxLineWidth
}

func (opts *WriteOptions) getLongValues() bool {
	return opts != nil && opts.LongValues
}
