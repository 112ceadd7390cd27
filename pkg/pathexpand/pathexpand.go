// Package pathexpand implements the path expansion rules for fileplan's
// "impure" mode: tilde and environment variable expansion on manifest
// source/target paths, versus pure mode's strict absolute-path requirement.
package pathexpand

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdzombak/fileplan/pkg/filesystem"
)

// ExpansionError wraps a path expansion failure (currently only an
// undefined environment variable reference), letting the CLI layer select
// its dedicated exit code without string-matching errors.
type ExpansionError struct {
	Path string
	Err  error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("unable to expand path %q: %v", e.Path, e.Err)
}
func (e *ExpansionError) Unwrap() error { return e.Err }

// Expand resolves path according to fileplan's pure/impure mode rules.
//
// In pure mode, path must already be absolute; if it isn't, ok is false and
// the caller should drop the entry with a warning (err is nil in that case -
// it's not a hard failure, just a path this mode refuses to use).
//
// In impure mode, a leading "~" or "~/" is replaced with the current user's
// home directory, then "${VAR}" and "$VAR" references are expanded against
// the process environment. An undefined variable reference is a hard error,
// since silently leaving it unexpanded (or substituting empty string) would
// send activation to an unintended path.
func Expand(path string, impure bool) (result string, ok bool, err error) {
	if !impure {
		if filepath.IsAbs(path) {
			return path, true, nil
		}
		return "", false, nil
	}

	expanded, err := expandTilde(path)
	if err != nil {
		return "", false, &ExpansionError{Path: path, Err: err}
	}

	expanded, err = expandEnvironment(expanded)
	if err != nil {
		return "", false, &ExpansionError{Path: path, Err: err}
	}

	return expanded, true, nil
}

// expandTilde replaces a leading "~" or "~/..." with the current user's home
// directory. A bare "~other" (another user's home directory) is left
// untouched, matching the shell convention that fileplan doesn't attempt to
// resolve.
func expandTilde(path string) (string, error) {
	if path == "~" {
		return filesystem.HomeDirectory, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.HomeDirectory, path[2:]), nil
	}
	return path, nil
}

// expandEnvironment performs a strict expansion of "$VAR" and "${VAR}"
// references, failing if any referenced variable is unset.
func expandEnvironment(path string) (string, error) {
	var missing error
	result := os.Expand(path, func(name string) string {
		value, found := os.LookupEnv(name)
		if !found && missing == nil {
			missing = fmt.Errorf("environment variable %q is not set", name)
		}
		return value
	})
	if missing != nil {
		return "", missing
	}
	return result, nil
}
