package main

import (
	"github.com/spf13/cobra"

	"github.com/cdzombak/fileplan/pkg/reconcile"
)

var activateConfiguration struct {
	prefix string
}

var activateCommand = &cobra.Command{
	Use:   "activate <manifest-path>",
	Short: "Activate a manifest, bringing the filesystem into conformance with it",
	Args:  exactArgs(1),
	Run: mainify(func(_ *cobra.Command, arguments []string) error {
		m, err := loadAndExpand(arguments[0], impure)
		if err != nil {
			return err
		}
		m.Activate(reconcile.New(logger), activateConfiguration.prefix, logger)
		return nil
	}),
}

func init() {
	flags := activateCommand.Flags()
	flags.SortFlags = false
	flags.StringVar(&activateConfiguration.prefix, "prefix", defaultBackupPrefix, "prefix to use when backing up conflicting targets")
}

// defaultBackupPrefix is prepended to a conflicting target's basename when it
// must be moved aside rather than clobbered.
const defaultBackupPrefix = ".backup-"
