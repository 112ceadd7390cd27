package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdzombak/fileplan/cmd"
)

// exactArgs adapts cmd.DisallowArguments - which rejects any positional
// argument - to subcommands that require exactly n of them instead of none.
func exactArgs(n int) cobra.PositionalArgs {
	if n == 0 {
		return cmd.DisallowArguments
	}
	return func(_ *cobra.Command, arguments []string) error {
		if len(arguments) != n {
			return fmt.Errorf("expected %d argument(s), got %d", n, len(arguments))
		}
		return nil
	}
}
