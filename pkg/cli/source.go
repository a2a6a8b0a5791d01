package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gobf/pkg/compiler"
	"gobf/pkg/program"
	"gobf/pkg/utils"
)

// sourceFlags are shared by every command that takes a program.
type sourceFlags struct {
	expr     string
	optimize bool
	lenient  bool
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.expr, "expr", "e", "", "program text instead of a file")
	cmd.Flags().BoolVarP(&s.optimize, "optimize", "O", false, "fold runs of moves and cell updates")
	cmd.Flags().BoolVar(&s.lenient, "lenient", false, "treat unknown characters as comments")
}

// read returns the program text from -e, a file argument, or stdin for "-".
func (s *sourceFlags) read(cmd *cobra.Command, args []string) (string, error) {
	var src string
	switch {
	case s.expr != "" && len(args) > 0:
		return "", errors.New("give either a file or -e, not both")
	case s.expr != "":
		src = s.expr
	case len(args) == 0:
		return "", errors.New("no program: give a file or -e")
	case args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		src = string(data)
	default:
		var err error
		if src, err = utils.ReadSource(args[0]); err != nil {
			return "", err
		}
	}
	if s.lenient {
		src = compiler.StripComments(src)
	}
	return src, nil
}

// compile reads and compiles the program. optimizeDefault comes from the
// config and is overridden by an explicit -O.
func (s *sourceFlags) compile(cmd *cobra.Command, args []string, optimizeDefault bool) (*program.Program, error) {
	src, err := s.read(cmd, args)
	if err != nil {
		return nil, err
	}
	p, err := program.Compile(src)
	if err != nil {
		return nil, err
	}
	opt := optimizeDefault
	if cmd.Flags().Changed("optimize") {
		opt = s.optimize
	}
	if opt {
		p = p.Optimize()
	}
	return p, nil
}
