package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cdzombak/fileplan/pkg/logging"
	"github.com/cdzombak/fileplan/pkg/must"
)

const (
	// swapSiblingPrefix is the file name prefix used for the randomized
	// sibling artifacts created during an atomic swap.
	swapSiblingPrefix = TemporaryNamePrefix + "swap-"

	// maxSiblingAttempts bounds the number of times SwapArtifact will
	// regenerate a sibling path after a collision before giving up.
	maxSiblingAttempts = 10
)

// SwapArtifact replaces the artifact at target with a newly created one,
// without any window in which target is observably absent. create is invoked
// with a sibling path in target's directory; it must create the complete
// replacement artifact (including its own permissions and ownership) at that
// path. SwapArtifact then renames the sibling over target.
//
// SwapArtifact fails if target exists and is not writable; it does not
// create target if it's absent (callers use it only for the atomic fast
// path over an existing target).
func SwapArtifact(target string, create func(sibling string) error, logger *logging.Logger) error {
	if !IsWritable(target) {
		return fmt.Errorf("target is not writable")
	}

	var sibling string
	for attempt := 0; attempt < maxSiblingAttempts; attempt++ {
		candidate, err := SiblingPath(target, swapSiblingPrefix)
		if err != nil {
			return fmt.Errorf("unable to generate sibling path: %w", err)
		}
		if _, statErr := os.Lstat(candidate); os.IsNotExist(statErr) {
			sibling = candidate
			break
		}
	}
	if sibling == "" {
		return fmt.Errorf("unable to find unused sibling path after %d attempts", maxSiblingAttempts)
	}

	if err := create(sibling); err != nil {
		must.OSRemove(sibling, logger)
		return fmt.Errorf("unable to create replacement artifact: %w", err)
	}

	if err := os.Rename(sibling, target); err != nil {
		must.OSRemove(sibling, logger)
		if isCrossDeviceError(err) {
			return fmt.Errorf("unable to rename replacement into place (cross-device): %w", err)
		}
		return fmt.Errorf("unable to rename replacement into place: %w", err)
	}

	return nil
}

// PrefixMove moves target aside to a sibling path formed by prefixing its
// base name with prefix, used to back up a conflicting target before
// clobbering it. If the backup destination already exists, it is removed
// first.
func PrefixMove(target, prefix string) error {
	destination := filepath.Join(filepath.Dir(target), prefix+filepath.Base(target))

	if _, err := os.Lstat(destination); err == nil {
		if err := os.RemoveAll(destination); err != nil {
			return fmt.Errorf("unable to remove existing backup at %s: %w", destination, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("unable to stat backup destination: %w", err)
	}

	if err := os.Rename(target, destination); err != nil {
		return fmt.Errorf("unable to move %s to backup location: %w", target, err)
	}

	return nil
}
