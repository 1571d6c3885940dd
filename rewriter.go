package manifest

import (
	"os"

	"github.com/packtext/manifest/internal/file"
	"github.com/packtext/manifest/internal/rewrite"
	"github.com/packtext/manifest/internal/snapshot"
)

// Rewriter edits single records of a stored document in place, leaving all
// unrelated bytes untouched. It holds an exclusively locked read/write
// handle from OpenRewriter until Close.
//
// When applying several edits derived from one parse pass, apply them in
// strictly decreasing document-offset order (iterate the parsed records in
// reverse): an edit shifts every byte behind it, and only offsets in front
// of all applied edits stay valid.
//
// A Replace or Insert that fails leaves the session broken with no
// guarantee the document is well-formed; every later edit returns
// ErrBrokenSession and Err reports the cause. There is no rollback; take
// a Checkpoint first when a batch must be all-or-nothing.
type Rewriter struct {
	rw *rewrite.Rewriter
}

// OpenRewriter opens the named document for in-place editing with an
// exclusive lock.
func OpenRewriter(name string, opts *Options) (*Rewriter, error) {
	rw, err := rewrite.Open(name, convertOptions(opts))
	if err != nil {
		return nil, err
	}
	return &Rewriter{rw: rw}, nil
}

// Replace rewrites rec's value in place. rec must carry the positions of a
// record parsed from this document, with Value set to the new value;
// records without a known colon position (ColonPos == 0) are rejected.
func (r *Rewriter) Replace(rec Record) error {
	return r.rw.Replace(&rec)
}

// Insert writes rec as a new record immediately after pos. pos must carry
// a known end position; the version sentinel of a parse pass may be used
// to insert before the first record of its document.
func (r *Rewriter) Insert(pos, rec Record) error {
	return r.rw.Insert(&pos, &rec)
}

// Checkpoint stores a compressed copy of the whole document at path.
func (r *Rewriter) Checkpoint(path string) error {
	return r.rw.Checkpoint(path)
}

// Restore rewrites the whole document from the checkpoint at path and
// clears a broken session.
func (r *Rewriter) Restore(path string) error {
	return r.rw.Restore(path)
}

// Err returns the error that broke the session, if any.
func (r *Rewriter) Err() error {
	return r.rw.Err()
}

// Close releases the document handle and its lock.
func (r *Rewriter) Close() error {
	return r.rw.Close()
}

// RestoreCheckpoint rewrites the document at dst from the checkpoint at
// src without opening a rewriter session. The restored document is written
// aside first and moved into place, so dst is never left half-written.
func RestoreCheckpoint(src, dst string, opts *Options) error {
	fs := opts.getFileSystem()
	data, err := snapshot.Read(fs, src)
	if err != nil {
		return err
	}
	tmp := dst + ".restore"
	if err := writeWhole(fs, tmp, data); err != nil {
		return err
	}
	return fs.Rename(tmp, dst)
}

// RemoveCheckpoint deletes the checkpoint at path. A checkpoint that does
// not exist is not an error.
func RemoveCheckpoint(path string, opts *Options) error {
	fs := opts.getFileSystem()
	if !fs.Exists(path) {
		return nil
	}
	return fs.Remove(path)
}

func writeWhole(fs file.FileSystem, name string, data []byte) error {
	f, err := fs.Open(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	_, werr := f.Write(data)
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}
