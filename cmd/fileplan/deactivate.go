package main

import (
	"github.com/spf13/cobra"

	"github.com/cdzombak/fileplan/pkg/reconcile"
)

var deactivateCommand = &cobra.Command{
	Use:   "deactivate <manifest-path>",
	Short: "Deactivate a manifest, removing everything it previously put in place",
	Args:  exactArgs(1),
	Run: mainify(func(_ *cobra.Command, arguments []string) error {
		m, err := loadAndExpand(arguments[0], impure)
		if err != nil {
			return err
		}
		m.Deactivate(reconcile.New(logger), logger)
		return nil
	}),
}
