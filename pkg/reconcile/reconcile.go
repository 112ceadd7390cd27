// Package reconcile implements the per-entry state machine that decides,
// given an entry's desired state and what's actually on disk, whether to
// skip, modify in place, atomically swap, back up, clobber, or fail.
package reconcile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cdzombak/fileplan/pkg/filesystem"
	"github.com/cdzombak/fileplan/pkg/logging"
	"github.com/cdzombak/fileplan/pkg/manifest"
)

// Reconciler implements manifest.EntryReconciler, performing the filesystem
// operations for one entry at a time. It holds no state beyond its logger -
// everything else is derived fresh from the filesystem on each call.
type Reconciler struct {
	logger *logging.Logger
}

// New creates a Reconciler that logs to the given logger (which may be
// nil).
func New(logger *logging.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Activate implements manifest.EntryReconciler.Activate, following spec
// §4.2's algorithm.
func (r *Reconciler) Activate(entry *manifest.Entry, effectiveClobber bool, backupPrefix string) error {
	// Step 1: source preflight for kinds that require one.
	if requiresSource(entry.Kind) {
		if skip, err := r.sourcePreflight(entry); err != nil {
			return err
		} else if skip {
			return nil
		}
	}

	if entry.Kind == manifest.KindRecursiveLink {
		return activateRecursiveLink(entry, effectiveClobber, backupPrefix, r.logger)
	}

	// Step 2: observe target.
	observed, err := Observe(entry.Target)
	if err != nil {
		return err
	}

	// Step 4: atomic fast path.
	if effectiveClobber && observed.Kind != ObservedAbsent &&
		(entry.Kind == manifest.KindCopy || entry.Kind == manifest.KindSymlink) {
		handled, err := r.attemptAtomicSwap(entry, observed)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	// Step 5: idempotence check.
	if equivalent, err := Equivalent(entry, observed); err != nil {
		return err
	} else if equivalent {
		r.logger.Infof("%s already correct", entry.Target)
		return nil
	}

	// Step 6: conflict resolution.
	if inTheWay(entry.Kind, observed) {
		if effectiveClobber {
			if err := os.RemoveAll(entry.Target); err != nil {
				return fmt.Errorf("unable to clobber %s: %w", entry.Target, err)
			}
		} else {
			if err := filesystem.PrefixMove(entry.Target, backupPrefix); err != nil {
				return fmt.Errorf("unable to back up %s: %w", entry.Target, err)
			}
		}
		observed = &ObservedState{Kind: ObservedAbsent}
	}

	// Step 7: execute by kind.
	return r.execute(entry, observed)
}

// Deactivate implements manifest.EntryReconciler.Deactivate, following spec
// §4.4's algorithm.
func (r *Reconciler) Deactivate(entry *manifest.Entry) error {
	if !entry.ShouldDeactivate() {
		return nil
	}

	if entry.Kind == manifest.KindRecursiveLink {
		return deactivateRecursiveLink(entry, r.logger)
	}

	observed, err := Observe(entry.Target)
	if err != nil {
		return err
	}
	if observed.Kind == ObservedAbsent {
		r.logger.Infof("%s already deleted", entry.Target)
		return nil
	}

	equivalent, err := Equivalent(entry, observed)
	if err != nil {
		return err
	}
	if !equivalent {
		return fmt.Errorf("%s is not the same as expected; refusing to remove", entry.Target)
	}

	switch entry.Kind {
	case manifest.KindDelete, manifest.KindModify:
		return nil
	case manifest.KindDirectory:
		if err := os.Remove(entry.Target); err != nil {
			return fmt.Errorf("unable to remove directory %s: %w", entry.Target, err)
		}
		return nil
	case manifest.KindSymlink, manifest.KindCopy:
		if err := os.RemoveAll(entry.Target); err != nil {
			return fmt.Errorf("unable to remove %s: %w", entry.Target, err)
		}
		return nil
	default:
		return fmt.Errorf("unrecognized entry kind %q", entry.Kind)
	}
}

// ResolveUpdate implements manifest.EntryReconciler.ResolveUpdate, following
// spec §4.5 step 2.
func (r *Reconciler) ResolveUpdate(old, newEntry *manifest.Entry, oldEffectiveClobber bool, backupPrefix string) (bool, error) {
	if !oldEffectiveClobber {
		observed, err := Observe(old.Target)
		if err != nil {
			return false, err
		}
		if observed.Kind != ObservedAbsent {
			equivalent, err := Equivalent(old, observed)
			if err != nil {
				return false, err
			}
			if !equivalent {
				if err := filesystem.PrefixMove(old.Target, backupPrefix); err != nil {
					return false, fmt.Errorf("unable to back up tampered %s: %w", old.Target, err)
				}
				return true, nil
			}
		}
	}

	observed, err := Observe(old.Target)
	if err != nil {
		return false, err
	}
	if observed.Kind == ObservedAbsent {
		return true, nil
	}
	handled, err := r.attemptAtomicSwap(newEntry, observed)
	if err != nil {
		return false, err
	}
	return !handled, nil
}

// requiresSource reports whether kind requires a source path.
func requiresSource(kind manifest.Kind) bool {
	switch kind {
	case manifest.KindCopy, manifest.KindSymlink, manifest.KindRecursiveLink:
		return true
	default:
		return false
	}
}

// sourcePreflight implements step 1: missing or wrong-kind sources are
// warned about and treated as a successful no-op, never a hard failure.
func (r *Reconciler) sourcePreflight(entry *manifest.Entry) (skip bool, err error) {
	if entry.Source == nil {
		r.logger.Warnf("%s has no source; skipping", entry.Target)
		return true, nil
	}

	info, statErr := os.Stat(*entry.Source)
	if statErr != nil {
		r.logger.Warnf("source %s does not exist; skipping %s", *entry.Source, entry.Target)
		return true, nil
	}

	if entry.Kind == manifest.KindCopy && !info.Mode().IsRegular() {
		r.logger.Warnf("source %s is not a regular file; skipping %s", *entry.Source, entry.Target)
		return true, nil
	}
	if entry.Kind == manifest.KindRecursiveLink && !info.IsDir() {
		r.logger.Warnf("source %s is not a directory; skipping %s", *entry.Source, entry.Target)
		return true, nil
	}

	return false, nil
}

// inTheWay implements step 6's "is the existing target in the way" rules.
func inTheWay(kind manifest.Kind, observed *ObservedState) bool {
	if observed.Kind == ObservedAbsent {
		return false
	}
	switch kind {
	case manifest.KindDirectory:
		return observed.Kind != ObservedDirectory
	case manifest.KindModify, manifest.KindDelete:
		return false
	default:
		return true
	}
}

// execute implements step 7, placing content once any conflict has been
// resolved and the target path is known to be usable.
func (r *Reconciler) execute(entry *manifest.Entry, observed *ObservedState) error {
	switch entry.Kind {
	case manifest.KindDirectory:
		if observed.Kind != ObservedDirectory {
			if err := os.MkdirAll(entry.Target, 0755); err != nil {
				return fmt.Errorf("unable to create directory %s: %w", entry.Target, err)
			}
		}
		return r.applyMetadata(entry, entry.Target, false)

	case manifest.KindCopy:
		if err := os.MkdirAll(filepath.Dir(entry.Target), 0755); err != nil {
			return fmt.Errorf("unable to create parent directory for %s: %w", entry.Target, err)
		}
		source, err := resolveSource(entry)
		if err != nil {
			return err
		}
		if err := copyFile(source, entry.Target); err != nil {
			return fmt.Errorf("unable to copy %s to %s: %w", source, entry.Target, err)
		}
		return r.applyMetadata(entry, entry.Target, false)

	case manifest.KindSymlink:
		if err := os.MkdirAll(filepath.Dir(entry.Target), 0755); err != nil {
			return fmt.Errorf("unable to create parent directory for %s: %w", entry.Target, err)
		}
		source, err := resolveSource(entry)
		if err != nil {
			return err
		}
		if err := os.Symlink(source, entry.Target); err != nil {
			return fmt.Errorf("unable to create symlink %s: %w", entry.Target, err)
		}
		return r.applyMetadata(entry, entry.Target, true)

	case manifest.KindModify:
		if observed.Kind == ObservedAbsent {
			return fmt.Errorf("%s does not exist", entry.Target)
		}
		return r.applyMetadata(entry, entry.Target, observed.Kind == ObservedSymlink)

	case manifest.KindDelete:
		if observed.Kind != ObservedAbsent {
			if err := os.RemoveAll(entry.Target); err != nil {
				return fmt.Errorf("unable to delete %s: %w", entry.Target, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("unrecognized entry kind %q", entry.Kind)
	}
}

// applyMetadata applies entry's permissions (unless isSymlink, since
// symlinks have no meaningful mode) and ownership (via l-chown) to path.
func (r *Reconciler) applyMetadata(entry *manifest.Entry, path string, isSymlink bool) error {
	if entry.Permissions != nil && !isSymlink {
		if err := os.Chmod(path, os.FileMode(*entry.Permissions)); err != nil {
			return fmt.Errorf("unable to set permissions on %s: %w", path, err)
		}
	}
	if entry.UID != nil || entry.GID != nil {
		uid, gid := -1, -1
		if entry.UID != nil {
			uid = int(*entry.UID)
		}
		if entry.GID != nil {
			gid = int(*entry.GID)
		}
		if err := filesystem.SetOwnership(path, uid, gid); err != nil {
			return fmt.Errorf("unable to set ownership on %s: %w", path, err)
		}
	}
	return nil
}

// attemptAtomicSwap implements §4.3's atomic-swap fast path for Copy and
// Symlink entries. handled is true if a swap was performed or definitively
// attempted (err non-nil in the latter case); handled is false (err nil)
// if the fast path's preconditions weren't met and the caller should fall
// through to ordinary placement. handled is also false, with err non-nil,
// if the source could not be inspected to check those preconditions.
func (r *Reconciler) attemptAtomicSwap(entry *manifest.Entry, observed *ObservedState) (handled bool, err error) {
	if entry.Kind != manifest.KindCopy && entry.Kind != manifest.KindSymlink {
		return false, nil
	}

	sourceIsDir, err := sourceIsDirectory(entry)
	if err != nil {
		return false, err
	}
	targetIsDir := observed.Kind == ObservedDirectory

	if sourceIsDir != targetIsDir {
		return false, nil
	}
	if sourceIsDir && targetIsDir {
		empty, err := sourceDirectoryEmpty(entry)
		if err != nil {
			return false, err
		}
		if !empty {
			return false, nil
		}
	}

	err = filesystem.SwapArtifact(entry.Target, func(sibling string) error {
		return r.createArtifactAt(entry, sibling)
	}, r.logger)
	if err != nil {
		return true, fmt.Errorf("unable to atomically swap %s: %w", entry.Target, err)
	}
	return true, nil
}

// createArtifactAt creates entry's content (copy bytes, or a symlink) at
// path, applying permissions/ownership. It's used for the atomic-swap
// sibling; ordinary placement is done by execute.
func (r *Reconciler) createArtifactAt(entry *manifest.Entry, path string) error {
	source, err := resolveSource(entry)
	if err != nil {
		return err
	}

	switch entry.Kind {
	case manifest.KindCopy:
		if err := copyFile(source, path); err != nil {
			return err
		}
		return r.applyMetadata(entry, path, false)
	case manifest.KindSymlink:
		if err := os.Symlink(source, path); err != nil {
			return fmt.Errorf("unable to create symlink: %w", err)
		}
		return r.applyMetadata(entry, path, true)
	default:
		return fmt.Errorf("atomic swap not supported for kind %q", entry.Kind)
	}
}

// sourceIsDirectory reports whether entry's resolved source is a directory.
func sourceIsDirectory(entry *manifest.Entry) (bool, error) {
	source, err := resolveSource(entry)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(source)
	if err != nil {
		return false, fmt.Errorf("unable to stat source %s: %w", source, err)
	}
	return info.IsDir(), nil
}

// sourceDirectoryEmpty reports whether entry's resolved source directory
// has no contents.
func sourceDirectoryEmpty(entry *manifest.Entry) (bool, error) {
	source, err := resolveSource(entry)
	if err != nil {
		return false, err
	}
	contents, err := filesystem.DirectoryContentsByPath(source)
	if err != nil {
		return false, err
	}
	return len(contents) == 0, nil
}

// copyFile copies source's bytes to destination, creating or truncating
// destination as needed with a conservative default mode (the caller
// applies the entry's real permissions afterward).
func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("unable to open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("unable to copy content: %w", err)
	}

	return out.Close()
}
