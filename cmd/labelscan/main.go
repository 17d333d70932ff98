// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Command labelscan extracts labeled PHI/PII fields from OCR text, PDFs and
// image EXIF text.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"labelscan/internal/config"
	"labelscan/internal/logger"
)

// app carries per-invocation state shared by subcommands.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	log    logger.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "labelscan",
		Short: "Extract labeled PHI/PII fields from document text",
		Long: `labelscan finds sensitive fields on ID cards, insurance cards and intake
forms by reading their labels ("DOB:", "MRN:", "NAME:"). It corrects common OCR
damage first and reports every value at its position in the original text.

Settings are resolved as: flags, then LABELSCAN_* environment variables, then
the selected profile, then the config file, then built-in defaults.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: ./labelscan.yaml or $LABELSCAN_CONFIG_DIR/config.yaml)")
	pf.String("profile", "", "named profile from the config file")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-json", false, "write logs as JSON")
	pf.Bool("debug", false, "print pipeline steps and timings to stderr")
	pf.Bool("no-color", false, "disable colored output")

	root.AddCommand(newScanCmd(a), newLabelsCmd(a), newSuppressCmd(a), newVersionCmd(a))
	return root
}

// setup loads the config, applies the profile and registers config values as
// viper defaults beneath flags and environment variables.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.v.SetEnvPrefix("LABELSCAN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.LoadConfigOrDefault(a.v.GetString("config"))
	if err != nil {
		if a.v.GetString("config") != "" {
			return err
		}
		fmt.Fprintf(a.stderr, "Warning: Error loading config file: %v\nUsing default configuration\n", err)
	}
	if profile := a.v.GetString("profile"); profile != "" {
		if err := cfg.ApplyProfile(profile); err != nil {
			return err
		}
	}
	a.cfg = cfg

	a.v.SetDefault("format", cfg.Defaults.Format)
	a.v.SetDefault("show-text", cfg.Defaults.ShowText)
	a.v.SetDefault("no-color", cfg.Defaults.NoColor)
	a.v.SetDefault("debug", cfg.Defaults.Debug)
	a.v.SetDefault("log-level", cfg.Defaults.LogLevel)
	a.v.SetDefault("log-json", cfg.Defaults.LogJSON)
	a.v.SetDefault("workers", cfg.Defaults.Workers)
	a.v.SetDefault("max-value-length", cfg.Extraction.MaxValueLength)
	a.v.SetDefault("types", cfg.Extraction.Types)

	level := a.v.GetString("log-level")
	if a.v.GetBool("debug") {
		level = string(logger.DebugLevel)
	}
	a.log = logger.Setup(level, a.v.GetBool("log-json"), a.stderr)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
