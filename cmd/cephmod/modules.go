package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/ceph"
	"github.com/cephmod/cephmod/client"
)

type cmdModules struct {
	common *CmdControl

	flagServer string
}

func (c *cmdModules) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules [MODULE]",
		Short: "List the modules, or the parameters of one module.",
		RunE:  c.Run,
	}

	cmd.Flags().StringVar(&c.flagServer, "server", "", "Ask a cephmod server instead of the local catalogue.")
	return cmd
}

func (c *cmdModules) Run(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return cmd.Help()
	}

	modules := ceph.ListModules()
	if c.flagServer != "" {
		cli, err := client.New(c.flagServer, nil)
		if err != nil {
			return err
		}

		modules, err = cli.ListModules(context.Background())
		if err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoWrapText(false)

	if len(args) == 0 {
		table.SetHeader([]string{"Module", "Description"})
		for _, m := range modules {
			table.Append([]string{m.Name, m.Description})
		}
		table.Render()
		return nil
	}

	module, err := findModule(modules, args[0])
	if err != nil {
		return err
	}

	table.SetHeader([]string{"Parameter", "Required", "Default", "Choices", "Description"})
	for _, p := range module.Params {
		required := ""
		if p.Required {
			required = "yes"
		}
		table.Append([]string{p.Name, required, p.Default, strings.Join(p.Choices, ", "), p.Help})
	}
	table.Render()

	return nil
}

func findModule(modules types.Modules, name string) (types.ModuleInfo, error) {
	for _, m := range modules {
		if m.Name == name {
			return m, nil
		}
	}
	return types.ModuleInfo{}, fmt.Errorf("unknown module '%s'", name)
}
