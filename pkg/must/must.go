// Package must provides helpers for cleanup-path operations that can fail but
// whose failure shouldn't abort the calling operation - the failure is logged
// and execution continues. These are used for secondary operations (removing
// an orphaned sibling file, closing a handle after its data has already been
// flushed) where surfacing the error to the caller would complicate control
// flow for little benefit.
package must

import (
	"fmt"
	"io"
	"os"

	"github.com/cdzombak/fileplan/pkg/logging"
)

// Fprint writes to w, logging (rather than returning) any error or short
// write.
func Fprint(w io.Writer, logger *logging.Logger, a ...interface{}) {
	s := fmt.Sprint(a...)
	n, err := fmt.Fprint(w, s)
	if err != nil {
		logger.Warnf("unable to write '%s': %s", s, err.Error())
	}
	if n < len(s) {
		logger.Warnf("unable to write all of '%s': wrote only %d of %d bytes", s, n, len(s))
	}
}

// Close closes c, logging (rather than returning) any error.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}

// OSRemove removes the named file or directory, logging (rather than
// returning) any error.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warnf("unable to remove '%s': %s", name, err.Error())
	}
}

// IOCopy copies from src to dst, logging (rather than returning) any error.
func IOCopy(dst io.Writer, src io.Reader, logger *logging.Logger) {
	if _, err := io.Copy(dst, src); err != nil {
		logger.Warnf("unable to copy from source to destination: %s", err.Error())
	}
}
