package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cdzombak/fileplan/pkg/filesystem"
	"github.com/cdzombak/fileplan/pkg/logging"
	"github.com/cdzombak/fileplan/pkg/manifest"
)

// activateRecursiveLink mirrors every file under entry.Source into a
// matching symlink under entry.Target, creating entry.Target and intermediate
// directories as needed. Grounded on original_source/src/file_util.rs's
// recursive_symlink.
func activateRecursiveLink(entry *manifest.Entry, effectiveClobber bool, backupPrefix string, logger *logging.Logger) error {
	if entry.Source == nil {
		return fmt.Errorf("recursiveLink entry has no source")
	}
	base := *entry.Source

	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			logger.Warnf("recursive walk error at %s: %v", path, walkErr)
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		if rel == "." {
			if err := os.MkdirAll(entry.Target, 0755); err != nil {
				return fmt.Errorf("unable to create directory %s: %w", entry.Target, err)
			}
			return nil
		}
		targetPath := filepath.Join(entry.Target, rel)

		if info.IsDir() {
			if existing, statErr := os.Lstat(targetPath); statErr == nil {
				if !existing.IsDir() {
					return fmt.Errorf("file in way of directory %s", targetPath)
				}
				return nil
			}
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("unable to create directory %s: %w", targetPath, err)
			}
			return nil
		}

		if _, statErr := os.Lstat(targetPath); statErr == nil {
			if effectiveClobber {
				if err := os.RemoveAll(targetPath); err != nil {
					return fmt.Errorf("unable to clobber %s: %w", targetPath, err)
				}
			} else {
				if err := filesystem.PrefixMove(targetPath, backupPrefix); err != nil {
					return fmt.Errorf("unable to back up %s: %w", targetPath, err)
				}
			}
		}

		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("unable to canonicalize %s: %w", path, err)
		}
		if err := os.Symlink(resolved, targetPath); err != nil {
			return fmt.Errorf("unable to symlink %s: %w", targetPath, err)
		}
		logger.Infof("symlinked %s -> %s", resolved, targetPath)
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to activate recursive link at %s: %w", entry.Target, err)
	}
	return nil
}

// deactivateRecursiveLink removes only the symlinks created by a prior
// activateRecursiveLink - those that still point at their corresponding
// file under entry.Source - then removes directories left empty afterward,
// deepest first. Grounded on
// original_source/src/file_util.rs's recursive_cleanup.
func deactivateRecursiveLink(entry *manifest.Entry, logger *logging.Logger) error {
	if entry.Source == nil {
		return fmt.Errorf("recursiveLink entry has no source")
	}
	base := *entry.Source

	type directory struct {
		path  string
		depth int
	}
	var directories []directory

	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			logger.Warnf("recursive walk error at %s: %v", path, walkErr)
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		targetPath := filepath.Join(entry.Target, rel)

		if info.IsDir() {
			directories = append(directories, directory{
				path:  targetPath,
				depth: strings.Count(rel, string(filepath.Separator)),
			})
			return nil
		}

		targetInfo, statErr := os.Lstat(targetPath)
		if statErr != nil {
			return nil
		}

		if targetInfo.Mode()&os.ModeSymlink != 0 {
			targetCanonical, err1 := filepath.EvalSymlinks(targetPath)
			sourceCanonical, err2 := filepath.EvalSymlinks(path)
			if err1 != nil || err2 != nil || targetCanonical != sourceCanonical {
				logger.Warnf("leaving %s: no longer points at %s", targetPath, path)
				return nil
			}
			if err := os.Remove(targetPath); err != nil {
				logger.Warnf("unable to remove %s: %v", targetPath, err)
			}
		} else {
			logger.Warnf("ignoring foreign file in recursive link directory: %s", targetPath)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to deactivate recursive link at %s: %w", entry.Target, err)
	}

	sort.Slice(directories, func(i, j int) bool { return directories[i].depth > directories[j].depth })
	for _, dir := range directories {
		if err := os.Remove(dir.path); err != nil {
			logger.Warnf("unable to remove directory %s: %v", dir.path, err)
		}
	}

	return nil
}
