package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gobf/pkg/utils"
)

type buildFlags struct {
	sourceFlags
	lang       string
	output     string
	bufferVar  string
	pointerVar string
	factory    string
	start      int
	tapeSize   int
	wrap       bool
}

func newBuildCmd(a *app) *cobra.Command {
	f := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Generate Go or Python source from a program",
		Long: `Generate a standalone Go or Python program that behaves like the
input on the tape machine.

Examples:
  gobf build -O hello.b -o hello.go
  gobf build --lang python --buffer-var tape hello.b`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.build(cmd, args, f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "target language: go or python")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&f.bufferVar, "buffer-var", "", "name of the tape variable")
	cmd.Flags().StringVar(&f.pointerVar, "pointer-var", "", "name of the pointer variable")
	cmd.Flags().StringVar(&f.factory, "buffer-factory", "", "name of the tape constructor")
	cmd.Flags().IntVar(&f.start, "start-index", 0, "initial pointer position")
	cmd.Flags().IntVar(&f.tapeSize, "tape-size", 0, "cells in the generated tape")
	cmd.Flags().BoolVar(&f.wrap, "wrap-pointer", false, "wrap the pointer around the tape ends")
	return cmd
}

func (a *app) build(cmd *cobra.Command, args []string, f *buildFlags) error {
	p, err := f.compile(cmd, args, a.cfg.Run.Optimize)
	if err != nil {
		return err
	}

	cfg := a.cfg.Codegen
	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Language = f.lang
	}
	if flags.Changed("buffer-var") {
		cfg.BufferVar = f.bufferVar
	}
	if flags.Changed("pointer-var") {
		cfg.PointerVar = f.pointerVar
	}
	if flags.Changed("buffer-factory") {
		cfg.BufferFactory = f.factory
	}
	if flags.Changed("start-index") {
		cfg.StartIndex = f.start
	}
	if flags.Changed("tape-size") {
		cfg.TapeSize = f.tapeSize
	}
	if flags.Changed("wrap-pointer") {
		cfg.WrapPointer = f.wrap
	}

	src, err := p.GenerateSource(cfg)
	if err != nil {
		return err
	}
	a.logger.Debug("source generated", "lang", cfg.Language, "bytes", len(src), "optimized", p.Optimized())

	if f.output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), src)
		return err
	}
	if err := utils.WriteOutput(f.output, []byte(src)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("source written", "file", f.output)
	return nil
}
