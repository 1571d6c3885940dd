package manifest

import (
	"os"

	"github.com/packtext/manifest/internal/logger"
)

// Logger receives internal progress and error information.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// DiscardLogger is a nop Logger.
var DiscardLogger Logger = logger.Discard

// FileLogger returns a Logger writing one severity-prefixed line per
// message to f. The file stays open after the owning session closes.
func FileLogger(f *os.File) Logger {
	return logger.StdLogger(f)
}

var _ Logger = (logger.Logger)(nil)
var _ logger.Logger = (Logger)(nil)
