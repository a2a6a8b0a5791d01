package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"gobf/pkg/compiler"
	"gobf/pkg/machine"
	"gobf/pkg/program"
)

const replHelp = `Enter Brainfuck to run it against the session tape. An unclosed "["
continues on the next line. Commands:
  :tape [n]       show n cells around the pointer
  :input <text>   queue text for "," (a trailing newline is added)
  :optimize       toggle folding of entered programs
  :reset          zero the tape, the pointer and the step counter
  :help           show this help
  :quit           leave the session`

// errQuit ends the session.
var errQuit = errors.New("quit")

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// session is one REPL: a machine whose tape survives between entries.
type session struct {
	m        *machine.Machine
	input    *bytes.Buffer
	optimize bool
}

func newSession(opts []machine.Option, optimize bool) *session {
	in := &bytes.Buffer{}
	m := machine.New(append(opts, machine.WithInput(in))...)
	return &session{m: m, input: in, optimize: optimize}
}

// eval handles one complete entry and writes what it produces to out.
func (s *session) eval(ctx context.Context, line string, out io.Writer) error {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed, out)
	}
	p, err := program.Compile(compiler.StripComments(line))
	if err != nil {
		return err
	}
	if s.optimize {
		p = p.Optimize()
	}

	var buf bytes.Buffer
	s.m.SetOutput(&buf)
	err = s.m.Run(ctx, p.Root())
	if buf.Len() > 0 {
		out.Write(buf.Bytes())
		if buf.Bytes()[buf.Len()-1] != '\n' {
			fmt.Fprintln(out)
		}
	}
	return err
}

func (s *session) command(cmd string, out io.Writer) error {
	name, arg, _ := strings.Cut(cmd, " ")
	switch name {
	case ":quit", ":q", ":exit":
		return errQuit
	case ":help", ":h":
		fmt.Fprintln(out, replHelp)
	case ":tape", ":t":
		width := defaultDumpWidth
		if arg != "" {
			if _, err := fmt.Sscan(arg, &width); err != nil || width <= 0 {
				return fmt.Errorf("bad width %q", arg)
			}
		}
		fmt.Fprintln(out, RenderTape(s.m, width))
	case ":input", ":i":
		s.input.WriteString(arg)
		s.input.WriteByte('\n')
	case ":optimize", ":O":
		s.optimize = !s.optimize
		fmt.Fprintf(out, "optimize %v\n", s.optimize)
	case ":reset":
		s.m.Reset()
		s.input.Reset()
	default:
		return fmt.Errorf("unknown command %s (try :help)", name)
	}
	return nil
}

// readEntry prompts until the collected lines compile or fail for a reason
// other than an unclosed loop. It returns false at end of input.
func readEntry(r lineReader, prompt, cont string) (string, bool, error) {
	var lines []string
	p := prompt
	for {
		line, err := r.Prompt(p)
		if err != nil {
			if err == io.EOF {
				return "", false, nil
			}
			return "", false, err
		}
		lines = append(lines, line)
		src := strings.Join(lines, "\n")
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true, nil
		}
		if _, err := compiler.Compile(compiler.StripComments(src)); compiler.IsIncomplete(err) {
			p = cont
			continue
		}
		return src, true, nil
	}
}

// loop runs entries from r until :quit or end of input.
func (s *session) loop(ctx context.Context, r lineReader, out, errOut io.Writer, record func(string)) error {
	for {
		entry, ok, err := readEntry(r, "bf> ", "... ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(entry) == "" {
			continue
		}
		if record != nil {
			record(entry)
		}
		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		err = s.eval(runCtx, entry, out)
		stop()
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			printError(errOut, err)
		}
	}
}

func newReplCmd(a *app) *cobra.Command {
	var noHistory bool
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive session on a persistent tape",
		Long:  "Interactive session on a persistent tape.\n\n" + replHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.machineOptions(cmd, f)
			if err != nil {
				return err
			}
			s := newSession(opts, a.cfg.Run.Optimize)

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			historyFile := ""
			if home, err := os.UserHomeDir(); err == nil && !noHistory {
				historyFile = filepath.Join(home, ".gobf_history")
				if f, err := os.Open(historyFile); err == nil {
					ln.ReadHistory(f)
					f.Close()
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("gobf")+" "+mutedStyle.Render(Version+" - :help for commands"))
			err = s.loop(context.Background(), ln, cmd.OutOrStdout(), cmd.ErrOrStderr(), ln.AppendHistory)
			if errors.Is(err, liner.ErrPromptAborted) {
				err = nil
			}

			if historyFile != "" {
				if f, ferr := os.Create(historyFile); ferr == nil {
					ln.WriteHistory(f)
					f.Close()
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&f.policy, "policy", "", "tape policy: wrap, strict or grow")
	cmd.Flags().IntVar(&f.tapeSize, "tape-size", 0, "cells on a wrap or strict tape")
	cmd.Flags().Uint64Var(&f.maxSteps, "max-steps", 0, "step budget for the whole session (0 = unlimited)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not read or write ~/.gobf_history")
	return cmd
}
