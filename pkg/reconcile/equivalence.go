package reconcile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cdzombak/fileplan/pkg/filesystem"
	"github.com/cdzombak/fileplan/pkg/manifest"
)

// resolveSource computes the path that a Copy/RecursiveLink/Symlink entry's
// source should be treated as: canonicalized (symlinks resolved) if
// follow_symlinks is true (the default), or the literal absolute path
// otherwise.
func resolveSource(entry *manifest.Entry) (string, error) {
	if entry.Source == nil {
		return "", fmt.Errorf("entry has no source")
	}
	if entry.ShouldFollowSymlinks() {
		resolved, err := filepath.EvalSymlinks(*entry.Source)
		if err != nil {
			return "", fmt.Errorf("unable to canonicalize source %s: %w", *entry.Source, err)
		}
		return resolved, nil
	}
	if !filepath.IsAbs(*entry.Source) {
		return "", fmt.Errorf("source %s must be absolute when follow_symlinks is false", *entry.Source)
	}
	return *entry.Source, nil
}

// permissionMatches reports whether observed satisfies entry's permission
// requirement: unset permissions always match.
func permissionMatches(entry *manifest.Entry, observed os.FileMode) bool {
	if entry.Permissions == nil {
		return true
	}
	wanted := filesystem.Mode(*entry.Permissions) & filesystem.ModePermissionsMask
	return filesystem.Mode(observed)&filesystem.ModePermissionsMask == wanted
}

// ownershipMatches reports whether observed uid/gid satisfy entry's
// ownership requirement: unset fields always match.
func ownershipMatches(entry *manifest.Entry, uid, gid uint32) bool {
	if entry.UID != nil && *entry.UID != uid {
		return false
	}
	if entry.GID != nil && *entry.GID != gid {
		return false
	}
	return true
}

// Equivalent implements the per-kind equivalence check from spec §4.2.1: is
// the observed target already what entry asks for?
func Equivalent(entry *manifest.Entry, observed *ObservedState) (bool, error) {
	switch entry.Kind {
	case manifest.KindDelete:
		return observed.Kind == ObservedAbsent, nil

	case manifest.KindDirectory:
		if observed.Kind != ObservedDirectory {
			return false, nil
		}
		return permissionMatches(entry, observed.Permission) && ownershipMatches(entry, observed.UID, observed.GID), nil

	case manifest.KindSymlink:
		if observed.Kind != ObservedSymlink {
			return false, nil
		}
		if !ownershipMatches(entry, observed.UID, observed.GID) {
			return false, nil
		}
		return symlinkPointsAtSource(entry)

	case manifest.KindCopy:
		if observed.Kind != ObservedFile {
			return false, nil
		}
		if !permissionMatches(entry, observed.Permission) || !ownershipMatches(entry, observed.UID, observed.GID) {
			return false, nil
		}
		if entry.ShouldIgnoreModification() {
			return true, nil
		}
		return copyContentMatches(entry)

	case manifest.KindModify:
		if observed.Kind == ObservedAbsent {
			return false, nil
		}
		return permissionMatches(entry, observed.Permission) && ownershipMatches(entry, observed.UID, observed.GID), nil

	default:
		return false, fmt.Errorf("unrecognized entry kind %q", entry.Kind)
	}
}

// symlinkPointsAtSource checks whether entry.Target, which is known to be a
// symlink, points at entry's source per its follow_symlinks setting.
func symlinkPointsAtSource(entry *manifest.Entry) (bool, error) {
	if entry.ShouldFollowSymlinks() {
		targetCanonical, err := filepath.EvalSymlinks(entry.Target)
		if err != nil {
			return false, nil
		}
		sourceCanonical, err := resolveSource(entry)
		if err != nil {
			return false, err
		}
		return targetCanonical == sourceCanonical, nil
	}

	link, err := os.Readlink(entry.Target)
	if err != nil {
		return false, fmt.Errorf("unable to read symlink %s: %w", entry.Target, err)
	}
	if entry.Source == nil {
		return false, fmt.Errorf("entry has no source")
	}
	if !filepath.IsAbs(*entry.Source) {
		return false, fmt.Errorf("source %s must be absolute when follow_symlinks is false", *entry.Source)
	}
	return link == *entry.Source, nil
}

// copyContentMatches checks whether entry.Target, known to be a regular
// file, matches entry's source by size and then by content hash - the size
// check is a cheap prefilter before the more expensive hash comparison.
func copyContentMatches(entry *manifest.Entry) (bool, error) {
	source, err := resolveSource(entry)
	if err != nil {
		return false, err
	}

	sourceInfo, err := os.Stat(source)
	if err != nil {
		return false, fmt.Errorf("unable to stat source %s: %w", source, err)
	}
	targetInfo, err := os.Stat(entry.Target)
	if err != nil {
		return false, fmt.Errorf("unable to stat target %s: %w", entry.Target, err)
	}
	if sourceInfo.Size() != targetInfo.Size() {
		return false, nil
	}

	sourceHash, err := filesystem.ContentHash(source)
	if err != nil {
		return false, fmt.Errorf("unable to hash source %s: %w", source, err)
	}
	targetHash, err := filesystem.ContentHash(entry.Target)
	if err != nil {
		return false, fmt.Errorf("unable to hash target %s: %w", entry.Target, err)
	}

	return sourceHash == targetHash, nil
}
