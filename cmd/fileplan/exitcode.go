package main

import (
	"errors"

	"github.com/cdzombak/fileplan/pkg/manifest"
	"github.com/cdzombak/fileplan/pkg/pathexpand"
)

// exitCodeFor maps one of the sentinel error types produced by the manifest
// and pathexpand packages to the CLI's documented exit code. ok is false for
// errors with no dedicated code, in which case the caller falls back to the
// generic failure path.
func exitCodeFor(err error) (code int, ok bool) {
	var loadIOErr *manifest.LoadIOError
	var versionErr *manifest.VersionError
	var parseErr *manifest.ParseError
	var expansionErr *pathexpand.ExpansionError

	switch {
	case errors.As(err, &loadIOErr):
		return 1, true
	case errors.As(err, &versionErr):
		return 2, true
	case errors.As(err, &parseErr):
		return 3, true
	case errors.As(err, &expansionErr):
		return 4, true
	default:
		return 0, false
	}
}
