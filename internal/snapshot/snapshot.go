// Package snapshot stores compressed, checksummed document checkpoints.
//
// A checkpoint file is a 4-byte little-endian masked CRC-32 checksum of the
// compressed payload followed by the snappy-compressed document.
package snapshot

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/packtext/manifest/internal/file"
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// masked rotates and offsets a raw checksum so that checksumming a buffer
// that itself embeds checksums stays well-behaved.
func masked(sum uint32) uint32 {
	return (sum>>15 | sum<<17) + 0xa282ead8
}

func checksum(b []byte) uint32 {
	return masked(crc32.Checksum(b, crcTable))
}

// Write stores data snappy-compressed at path, replacing any previous
// checkpoint there.
func Write(fs file.FileSystem, path string, data []byte) error {
	f, err := fs.Open(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	compressed := snappy.Encode(nil, data)
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], checksum(compressed))
	_, werr := f.Write(header[:])
	if werr == nil {
		_, werr = f.Write(compressed)
	}
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}

// Read loads, verifies and decompresses the checkpoint at path.
func Read(fs file.FileSystem, path string) ([]byte, error) {
	f, err := fs.Open(path, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("manifest: checkpoint %s: truncated", path)
	}
	compressed := data[4:]
	if got, want := checksum(compressed), binary.LittleEndian.Uint32(data[:4]); got != want {
		return nil, fmt.Errorf("manifest: checkpoint %s: checksum mismatch", path)
	}
	return snappy.Decode(nil, compressed)
}
