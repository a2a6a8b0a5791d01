package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gobf/pkg/codegen"
	"gobf/pkg/compiler"
)

func newTokensCmd(a *app) *cobra.Command {
	f := &sourceFlags{}
	var all bool
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := f.read(cmd, args)
			if err != nil {
				return err
			}
			tokens, err := compiler.Tokenize(src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				if tok.Type.Ignorable() && !all {
					continue
				}
				fmt.Fprintln(out, tok)
			}
			a.logger.Debug("tokenized", "tokens", len(tokens))
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.expr, "expr", "e", "", "program text instead of a file")
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "treat unknown characters as comments")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include whitespace tokens")
	return cmd
}

func newASTCmd(a *app) *cobra.Command {
	f := &sourceFlags{}
	var ir bool
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree of a program",
		Long: `Print the syntax tree of a program as an s-expression. With --ir the
tree is lowered and the codegen statements are printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.compile(cmd, args, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ir {
				fmt.Fprintln(out, p)
				return nil
			}
			mod, err := codegen.Lower(p.Root(), a.cfg.Codegen)
			if err != nil {
				return err
			}
			for _, s := range mod.Body {
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&ir, "ir", false, "print the lowered statements")
	return cmd
}
