// +build !windows

package filesystem

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// isCrossDeviceError checks whether or not an error returned by os.Rename is
// due to an attempted rename across devices.
func isCrossDeviceError(err error) bool {
	if linkErr, ok := err.(*os.LinkError); !ok {
		return false
	} else {
		return linkErr.Err == syscall.EXDEV
	}
}

// IsWritable reports whether path can be written to by the current process.
// It returns false (rather than an error) if path does not exist.
func IsWritable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
