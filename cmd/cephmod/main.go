// Package main is the cephmod command line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/canonical/lxd/shared/logger"
	"github.com/pborman/uuid"
	"github.com/spf13/cobra"

	"github.com/cephmod/cephmod/ceph"
	"github.com/cephmod/cephmod/config"
	"github.com/cephmod/cephmod/rados"
)

// errFailed is returned by commands that already reported their failure on stdout.
var errFailed = errors.New("invocation failed")

// CmdControl has functions that are common to the cephmod commands.
type CmdControl struct {
	FlagConfig     string
	FlagLogDebug   bool
	FlagLogVerbose bool

	config *config.Config

	// runID tags log entries and is used as the invocation id by apply.
	runID string
}

// setup loads the configuration and initialises logging.
func (c *CmdControl) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.FlagConfig)
	if err != nil {
		return err
	}
	c.config = cfg

	c.runID = uuid.New()
	debug := c.FlagLogDebug || cfg.Log.Debug
	verbose := c.FlagLogVerbose || cfg.Log.Verbose

	err = logger.InitLogger(cfg.Log.File, "", verbose, debug, &fieldsHook{fields: map[string]any{"run": c.runID}})
	if err != nil {
		return fmt.Errorf("failed initialising logger: %w", err)
	}

	return nil
}

// invoker returns the invoker wired to the cluster client library and the configured tools.
func (c *CmdControl) invoker() *ceph.Invoker {
	return &ceph.Invoker{
		Connect:  rados.Connect,
		Defaults: c.config.ConnParams(),
		Binaries: c.config.CephBinaries(),
	}
}

func main() {
	// common flags.
	commonCmd := CmdControl{}

	app := &cobra.Command{
		Use:               "cephmod",
		Short:             "Idempotent ceph administration modules",
		Version:           version,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: commonCmd.setup,
	}

	app.PersistentFlags().StringVar(&commonCmd.FlagConfig, "config", "", "Path to the configuration file (default "+config.DefaultPath+")")
	app.PersistentFlags().BoolVarP(&commonCmd.FlagLogDebug, "debug", "d", false, "Show all debug messages")
	app.PersistentFlags().BoolVarP(&commonCmd.FlagLogVerbose, "verbose", "v", false, "Show all information messages")

	app.SetVersionTemplate("{{.Version}}\n")

	var cmdApply = cmdApply{common: &commonCmd}
	app.AddCommand(cmdApply.Command())

	var cmdModules = cmdModules{common: &commonCmd}
	app.AddCommand(cmdModules.Command())

	var cmdServe = cmdServe{common: &commonCmd}
	app.AddCommand(cmdServe.Command())

	var cmdVersion = cmdVersion{}
	app.AddCommand(cmdVersion.Command())

	app.InitDefaultHelpCmd()

	err := app.Execute()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
