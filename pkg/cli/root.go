// Package cli implements the gobf command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gobf/pkg/config"
	"gobf/pkg/logging"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg     *config.Config
	logger  *slog.Logger
	logFile io.Closer
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "gobf",
		Short: "gobf - Brainfuck interpreter and transpiler",
		Long: `gobf compiles Brainfuck source into a syntax tree, optionally folds
runs of moves and cell updates, and then either executes the tree on a
tape machine or generates equivalent Go or Python source.

Configuration is read from --config, the GOBF_CONFIG environment
variable, ./gobf.toml, ./gobf.yaml or ~/.config/gobf/config.{toml,yaml}.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (TOML or YAML)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(
		newRunCmd(a),
		newBuildCmd(a),
		newTokensCmd(a),
		newASTCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	err := NewRootCommand().Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error:"), err)
}

// setup loads the configuration and builds the logger before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.Log.Format = a.logFormat
	}

	lc := logging.DefaultConfig("gobf")
	lc.Level = a.cfg.Log.Level
	lc.Format = a.cfg.Log.Format
	lc.Output = cmd.ErrOrStderr()
	if a.cfg.Log.File != "" {
		f, err := os.OpenFile(a.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		lc.Output = f
	}
	a.logger = logging.New(lc)
	a.logger.Debug("config loaded", "file", a.cfgFile, "policy", a.cfg.Tape.Policy, "tape_size", a.cfg.Tape.Size)
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gobf %s\n", Version)
		},
	}
}
