package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

type cmdVersion struct{}

func (c *cmdVersion) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		// skip loading the configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE:              c.Run,
	}
	return cmd
}

func (c *cmdVersion) Run(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), version)
	return nil
}
