// Package rewrite edits single records of an on-disk manifest document in
// place, leaving every unrelated byte untouched.
package rewrite

import (
	"io"
	"os"

	"github.com/packtext/manifest/internal/errors"
	"github.com/packtext/manifest/internal/file"
	"github.com/packtext/manifest/internal/logger"
	"github.com/packtext/manifest/internal/options"
	"github.com/packtext/manifest/internal/record"
	"github.com/packtext/manifest/internal/serial"
	"github.com/packtext/manifest/internal/snapshot"
)

// Rewriter holds one exclusively locked read/write handle to a document for
// its whole lifetime. Edits derived from a single parse pass must be
// applied in strictly decreasing document-offset order, so that offsets of
// not-yet-applied edits stay valid.
//
// Any failed edit leaves the session broken: the document may be malformed
// and every later call returns the first error. There is no rollback;
// callers needing atomicity take a Checkpoint first.
type Rewriter struct {
	name string
	f    file.File
	fs   file.FileSystem
	log  logger.Logger

	width int
	long  bool

	err error
}

// Open opens the named document for in-place rewriting, acquiring an
// exclusive lock on it.
func Open(name string, opts *options.Options) (*Rewriter, error) {
	f, err := opts.FileSystem.OpenExclusive(name, os.O_RDWR)
	if err != nil {
		return nil, err
	}
	return &Rewriter{
		name:  name,
		f:     f,
		fs:    opts.FileSystem,
		log:   opts.Logger,
		width: opts.MaxLineWidth,
		long:  opts.LongValues,
	}, nil
}

// Err returns the error that broke the session, if any.
func (r *Rewriter) Err() error {
	return r.err
}

// Close releases the document handle and its lock. The session is unusable
// afterwards.
func (r *Rewriter) Close() error {
	if r.err == errors.ErrClosed {
		return nil
	}
	r.err = errors.ErrClosed
	return r.f.Close()
}

// Replace rewrites rec's value in place. rec must come from a parse pass of
// this document: its ColonPos locates the splice point and its EndPos the
// start of the untouched suffix. The new value is rec.Value.
func (r *Rewriter) Replace(rec *record.Record) error {
	if r.err != nil {
		return r.brokenErr()
	}
	if rec.ColonPos == 0 {
		return errors.ErrNotRewritable
	}
	rendered, err := serial.Value(rec.Name, rec.Value, r.width, r.long)
	if err != nil {
		return r.broke(err)
	}
	r.log.Debugf("manifest %s: replace %q at %d", r.name, rec.Name, rec.ColonPos)
	return r.splice(rec.ColonPos+1, rec.EndPos, rendered)
}

// Insert writes rec as a new record immediately after pos, which must carry
// a valid EndPos. The version sentinel of a parse pass may be used to
// insert before the first record of its document.
func (r *Rewriter) Insert(pos *record.Record, rec *record.Record) error {
	if r.err != nil {
		return r.brokenErr()
	}
	if pos.EndPos == 0 {
		return errors.ErrNotInsertable
	}
	rendered, err := serial.Record(rec.Name, rec.Value, r.width, r.long)
	if err != nil {
		return r.broke(err)
	}
	r.log.Debugf("manifest %s: insert %q at %d", r.name, rec.Name, pos.EndPos)
	return r.splice(pos.EndPos, pos.EndPos, "\n"+rendered)
}

// splice buffers the document suffix starting at keep, truncates the
// document at cut, writes text there and appends the suffix back.
func (r *Rewriter) splice(cut, keep int64, text string) error {
	if _, err := r.f.Seek(keep, io.SeekStart); err != nil {
		return r.broke(err)
	}
	suffix, err := io.ReadAll(r.f)
	if err != nil {
		return r.broke(err)
	}
	if err := r.f.Truncate(cut); err != nil {
		return r.broke(err)
	}
	if _, err := r.f.Seek(cut, io.SeekStart); err != nil {
		return r.broke(err)
	}
	if _, err := io.WriteString(r.f, text); err != nil {
		return r.broke(err)
	}
	if _, err := r.f.Write(suffix); err != nil {
		return r.broke(err)
	}
	if err := r.f.Sync(); err != nil {
		return r.broke(err)
	}
	return nil
}

func (r *Rewriter) broke(err error) error {
	r.err = err
	r.log.Errorf("manifest %s: session broken: %s", r.name, err)
	return err
}

func (r *Rewriter) brokenErr() error {
	if r.err == errors.ErrClosed {
		return errors.ErrClosed
	}
	return errors.ErrBrokenSession
}

// Checkpoint stores a compressed copy of the whole document at path, to be
// replayed with Restore if a later edit breaks the session.
func (r *Rewriter) Checkpoint(path string) error {
	if r.err != nil {
		return r.brokenErr()
	}
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return r.broke(err)
	}
	data, err := io.ReadAll(r.f)
	if err != nil {
		return r.broke(err)
	}
	return snapshot.Write(r.fs, path, data)
}

// Restore rewrites the whole document from the checkpoint at path and
// clears a broken session, keeping the handle and lock.
func (r *Rewriter) Restore(path string) error {
	if r.err == errors.ErrClosed {
		return errors.ErrClosed
	}
	data, err := snapshot.Read(r.fs, path)
	if err != nil {
		return err
	}
	if err := r.f.Truncate(0); err != nil {
		return r.broke(err)
	}
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return r.broke(err)
	}
	if _, err := r.f.Write(data); err != nil {
		return r.broke(err)
	}
	if err := r.f.Sync(); err != nil {
		return r.broke(err)
	}
	r.err = nil
	r.log.Infof("manifest %s: restored from checkpoint %s", r.name, path)
	return nil
}
