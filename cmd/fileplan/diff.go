package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cdzombak/fileplan/pkg/manifest"
	"github.com/cdzombak/fileplan/pkg/reconcile"
)

var diffConfiguration struct {
	prefix   string
	fallback bool
}

var diffCommand = &cobra.Command{
	Use:   "diff <manifest-path> <old-manifest-path>",
	Short: "Transition the filesystem from an old manifest's state to a new one's",
	Args:  exactArgs(2),
	Run: mainify(func(_ *cobra.Command, arguments []string) error {
		newManifest, err := loadAndExpand(arguments[0], impure)
		if err != nil {
			return err
		}

		oldManifest, err := loadOld(arguments[1], impure, diffConfiguration.fallback)
		if err != nil {
			return err
		}

		manifest.Diff(oldManifest, newManifest, reconcile.New(logger), diffConfiguration.prefix, logger)
		return nil
	}),
}

func init() {
	flags := diffCommand.Flags()
	flags.SortFlags = false
	flags.StringVar(&diffConfiguration.prefix, "prefix", defaultBackupPrefix, "prefix to use when backing up conflicting targets")
	flags.BoolVar(&diffConfiguration.fallback, "fallback", false, "treat a missing old manifest as an empty one (bootstrap)")
}

// loadOld loads the old manifest for a diff, honoring --fallback: a missing
// file is either substituted with an empty manifest (fallback) or reported
// as the same class of failure as a parse error, per spec.
func loadOld(path string, impure, fallback bool) (*manifest.Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if fallback {
				return &manifest.Manifest{}, nil
			}
			return nil, &manifest.ParseError{Err: fmt.Errorf("old manifest %q does not exist", path)}
		}
		return nil, &manifest.LoadIOError{Err: err}
	}
	return loadAndExpand(path, impure)
}
