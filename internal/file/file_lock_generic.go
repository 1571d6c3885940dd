//go:build !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !solaris && !windows

package file

import (
	"fmt"
	"os"
	"runtime"
)

var errNoFileLocking = fmt.Errorf("manifest: file locking is not implemented on %s/%s", runtime.GOOS, runtime.GOARCH)

func lock(f *os.File) error {
	return errNoFileLocking
}

func unlock(f *os.File) error {
	return nil
}
