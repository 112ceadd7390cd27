// Command fileplan activates, deactivates, or diffs a declarative
// filesystem manifest: a JSON description of directories, copies, symlinks,
// metadata-only modifications, and deletions that should exist on disk.
package main

import (
	"github.com/spf13/cobra"

	"github.com/cdzombak/fileplan/cmd"
	"github.com/cdzombak/fileplan/pkg/logging"
)

var (
	verbose bool
	impure  bool

	logger = logging.RootLogger.Sublogger("fileplan")
)

var rootCommand = &cobra.Command{
	Use:           "fileplan",
	Short:         "Activate, deactivate, or diff a declarative filesystem manifest",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logging.RootLogger.SetLevel(logging.LevelInfo)
			// logger was derived from RootLogger at package initialization,
			// so it carries its own copy of the level.
			logger.SetLevel(logging.LevelInfo)
		}
	},
}

// mainify wraps a subcommand entry point that wants to select its own exit
// code on failure, the way cmd.Mainify wraps one that's always satisfied
// with the generic exit code 1. Subcommand errors here carry one of the
// sentinel types from pkg/manifest or pkg/pathexpand when a specific code
// applies; anything else falls back to cmd.Fatal's code 1.
func mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		err := entry(command, arguments)
		if err == nil {
			return
		}
		if code, ok := exitCodeFor(err); ok {
			cmd.FatalCode(code, err)
			return
		}
		cmd.Fatal(err)
	}
}

func main() {
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCommand.PersistentFlags().BoolVar(&impure, "impure", false, "expand \"~\" and environment variables in manifest paths")
	rootCommand.PersistentFlags().SortFlags = false

	rootCommand.AddCommand(activateCommand, deactivateCommand, diffCommand)

	if err := rootCommand.Execute(); err != nil {
		cmd.Fatal(err)
	}
}
