package reconcile

import (
	"fmt"
	"os"

	"github.com/cdzombak/fileplan/pkg/filesystem"
)

// ObservedKind classifies what (if anything) currently exists at a target
// path.
type ObservedKind int

const (
	// ObservedAbsent means nothing exists at the target path.
	ObservedAbsent ObservedKind = iota
	// ObservedFile means a regular file exists at the target path.
	ObservedFile
	// ObservedSymlink means a symbolic link exists at the target path.
	ObservedSymlink
	// ObservedDirectory means a directory exists at the target path.
	ObservedDirectory
	// ObservedOther means something exists at the target path that is
	// none of the above (a device node, socket, etc.).
	ObservedOther
)

// ObservedState is a snapshot of what's on disk at a target path, taken
// without following a final symlink component.
type ObservedState struct {
	Kind       ObservedKind
	Permission os.FileMode
	UID, GID   uint32
}

// Observe takes an l-stat snapshot of path.
func Observe(path string) (*ObservedState, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ObservedState{Kind: ObservedAbsent}, nil
		}
		return nil, fmt.Errorf("unable to stat %s: %w", path, err)
	}

	rawMode, err := filesystem.GetRawMode(info)
	if err != nil {
		return nil, fmt.Errorf("unable to determine raw mode of %s: %w", path, err)
	}

	state := &ObservedState{Permission: os.FileMode(rawMode & filesystem.ModePermissionsMask)}
	switch rawMode & filesystem.ModeTypeMask {
	case filesystem.ModeTypeSymbolicLink:
		state.Kind = ObservedSymlink
	case filesystem.ModeTypeDirectory:
		state.Kind = ObservedDirectory
	case filesystem.ModeTypeFile:
		state.Kind = ObservedFile
	default:
		state.Kind = ObservedOther
	}

	uid, gid, err := filesystem.GetOwnership(info)
	if err != nil {
		return nil, fmt.Errorf("unable to determine ownership of %s: %w", path, err)
	}
	state.UID = uint32(uid)
	state.GID = uint32(gid)

	return state, nil
}
