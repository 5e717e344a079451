package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/ceph"
	"github.com/cephmod/cephmod/client"
)

type cmdApply struct {
	common *CmdControl

	flagArgsFile string
	flagCheck    bool
	flagOutput   string
	flagServer   string
}

func (c *cmdApply) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <MODULE> [KEY=VALUE...]",
		Short: "Run one invocation of a module and print its result.",
		RunE:  c.Run,
	}

	cmd.Flags().StringVar(&c.flagArgsFile, "args-file", "", "Read arguments from a JSON or YAML file; KEY=VALUE arguments take precedence.")
	cmd.Flags().BoolVar(&c.flagCheck, "check", false, "Only report what would change.")
	cmd.Flags().StringVarP(&c.flagOutput, "output", "o", "json", "Output format (json or table).")
	cmd.Flags().StringVar(&c.flagServer, "server", "", "Send the invocation to a cephmod server, e.g. http://127.0.0.1:7480.")
	return cmd
}

func (c *cmdApply) Run(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}

	if c.flagOutput != "json" && c.flagOutput != "table" {
		return fmt.Errorf("unknown output format '%s'", c.flagOutput)
	}

	moduleArgs, err := parseArgs(c.flagArgsFile, args[1:])
	if err != nil {
		return err
	}

	ctx := ceph.WithInvocationID(context.Background(), c.common.runID)

	var result types.Result
	if c.flagServer != "" {
		cli, err := client.New(c.flagServer, nil)
		if err != nil {
			return err
		}

		result, err = cli.ApplyModule(ctx, args[0], moduleArgs, c.flagCheck)
		if err != nil {
			return err
		}
	} else {
		result = c.common.invoker().Apply(ctx, args[0], moduleArgs, c.flagCheck)
	}

	err = printResult(cmd.OutOrStdout(), result, c.flagOutput)
	if err != nil {
		return err
	}

	if result.Failed {
		return errFailed
	}

	return nil
}

// parseArgs merges the arguments file with KEY=VALUE arguments.
func parseArgs(argsFile string, pairs []string) (map[string]any, error) {
	args := map[string]any{}

	if argsFile != "" {
		data, err := os.ReadFile(argsFile)
		if err != nil {
			return nil, fmt.Errorf("failed reading arguments file: %w", err)
		}

		// YAML is a superset of JSON
		err = yaml.Unmarshal(data, &args)
		if err != nil {
			return nil, fmt.Errorf("failed parsing arguments file %s: %w", argsFile, err)
		}
		if args == nil {
			args = map[string]any{}
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument '%s', expected KEY=VALUE", pair)
		}
		args[key] = value
	}

	return args, nil
}

func printResult(w io.Writer, result types.Result, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(result, "", "    ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"Field", "Value"})
	summary.SetAutoWrapText(false)
	for _, row := range [][]string{
		{"module", result.Module},
		{"invocation", result.InvocationID},
		{"changed", strconv.FormatBool(result.Changed)},
		{"outcome", string(result.Outcome)},
		{"msg", result.Msg},
		{"delta", result.Delta},
	} {
		if row[1] != "" {
			summary.Append(row)
		}
	}
	for _, warning := range result.Warnings {
		summary.Append([]string{"warning", warning})
	}
	summary.Render()

	if len(result.Steps) == 0 {
		return nil
	}

	steps := tablewriter.NewWriter(w)
	steps.SetHeader([]string{"Action", "Command", "RC", "Outcome"})
	steps.SetAutoWrapText(false)
	for _, step := range result.Steps {
		steps.Append([]string{step.Action, step.Cmd, strconv.Itoa(step.RC), string(step.Outcome)})
	}
	steps.Render()

	return nil
}
