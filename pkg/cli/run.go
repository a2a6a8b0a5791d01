package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gobf/pkg/machine"
	"gobf/pkg/utils"
)

type runFlags struct {
	sourceFlags
	input    string
	policy   string
	tapeSize int
	maxSteps uint64
	timeout  time.Duration
	dump     bool
	snapshot string
	restore  string
	png      string
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Execute a program on the tape machine",
		Long: `Execute a program on the tape machine. Program input is read from
stdin unless --input is given; output goes to stdout. A file argument of
"-" reads the program itself from stdin, which leaves no input for ","
so such programs need --input.

Examples:
  gobf run hello.b
  gobf run -O -e '++++++++[>++++++++<-]>+.'
  gobf run --policy grow --dump --snapshot final.zip prog.b`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "program input instead of stdin")
	cmd.Flags().StringVar(&f.policy, "policy", "", "tape policy: wrap, strict or grow")
	cmd.Flags().IntVar(&f.tapeSize, "tape-size", 0, "cells on a wrap or strict tape")
	cmd.Flags().Uint64Var(&f.maxSteps, "max-steps", 0, "abort after this many steps (0 = unlimited)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "abort after this long (0 = no limit)")
	cmd.Flags().BoolVar(&f.dump, "dump", false, "print the tape around the pointer to stderr when done")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "write the final machine state to this archive")
	cmd.Flags().StringVar(&f.restore, "restore", "", "start from a machine state archive")
	cmd.Flags().StringVar(&f.png, "png", "", "write the final tape as a grayscale PNG")
	return cmd
}

// machineOptions applies any flags set on the command line to a copy of
// the config and translates the result.
func (a *app) machineOptions(cmd *cobra.Command, f *runFlags) ([]machine.Option, error) {
	cfg := *a.cfg
	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Tape.Policy = f.policy
	}
	if flags.Changed("tape-size") {
		if f.tapeSize <= 0 {
			return nil, fmt.Errorf("tape size must be positive, got %d", f.tapeSize)
		}
		cfg.Tape.Size = f.tapeSize
	}
	if flags.Changed("max-steps") {
		cfg.Run.MaxSteps = f.maxSteps
	}
	opts, err := cfg.MachineOptions()
	if err != nil {
		return nil, err
	}
	return append(opts, machine.WithLogger(a.logger)), nil
}

func (a *app) run(cmd *cobra.Command, args []string, f *runFlags) error {
	p, err := f.compile(cmd, args, a.cfg.Run.Optimize)
	if err != nil {
		return err
	}
	opts, err := a.machineOptions(cmd, f)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if cmd.Flags().Changed("input") {
		in = strings.NewReader(f.input)
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	opts = append(opts, machine.WithInput(in), machine.WithOutput(out))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := a.cfg.Run.Timeout.Duration
	if cmd.Flags().Changed("timeout") {
		timeout = f.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	m := machine.New(opts...)
	if f.restore != "" {
		if err := m.RestoreFromFile(f.restore); err != nil {
			return err
		}
		a.logger.Info("machine restored", "file", f.restore, "pointer", m.Pointer(), "steps", m.Steps())
	}

	runErr := m.Run(ctx, p.Root())
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if errors.Is(runErr, context.DeadlineExceeded) {
		runErr = fmt.Errorf("run timed out after %s: %w", timeout, runErr)
	}

	if f.dump {
		fmt.Fprintln(cmd.ErrOrStderr(), RenderTape(m, defaultDumpWidth))
	}
	if f.snapshot != "" {
		if err := a.writeSnapshot(m, f.snapshot); err != nil {
			return errors.Join(runErr, err)
		}
	}
	if f.png != "" {
		if err := m.SaveTapePNG(f.png, machine.DefaultImageCols); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func (a *app) writeSnapshot(m *machine.Machine, name string) error {
	data, err := m.SnapshotToBytes()
	if err != nil {
		return err
	}
	path := a.snapshotPath(name)
	if err := utils.WriteOutput(path, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	a.logger.Info("snapshot written", "file", path, "run_id", m.RunID())
	return nil
}

// snapshotPath places relative archive names under the configured
// snapshot directory.
func (a *app) snapshotPath(name string) string {
	if a.cfg.Run.SnapshotDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.cfg.Run.SnapshotDir, name)
}
