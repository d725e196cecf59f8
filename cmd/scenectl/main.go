// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Scenectl creates and inspects scene files.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gviegas/scenegraph/internal/config"
	"github.com/gviegas/scenegraph/internal/logging"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by commands.
// It is set up before any command runs.
type app struct {
	cfg config.Config
	log *zap.Logger
}

func newRoot() *cobra.Command {
	a := new(app)
	var cfgFile, logLevel string

	root := &cobra.Command{
		Use:          "scenectl",
		Short:        "Create and inspect scene files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Check(); err != nil {
				return err
			}
			a.cfg = cfg
			a.log, err = logging.New(cfg.LogLevel)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (YAML)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		schemaVersionCmd(),
		addCmd(),
		a.cubeCmd(),
		a.validateCmd(),
		a.hashCmd(),
		a.convertCmd(),
		a.inspectCmd(),
		a.importCmd(),
	)
	return root
}
