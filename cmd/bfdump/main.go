// Command bfdump prints every stage of the pipeline for one program: tokens,
// tree, folded tree, lowered statements and the generated source.
package main

import (
	"fmt"
	"io"
	"os"

	"gobf/pkg/codegen"
	"gobf/pkg/compiler"
	"gobf/pkg/utils"
)

const testSource = `++++++++[>++++++++<-]>+.`

func main() {
	src := testSource
	lang := codegen.LanguageGo
	if len(os.Args) > 1 {
		var err error
		src, err = utils.ReadSource(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
	}
	if len(os.Args) > 2 {
		lang = os.Args[2]
	}
	if err := dump(os.Stdout, src, lang); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dump(w io.Writer, src, lang string) error {
	fmt.Fprintf(w, "Source:\n%s\n\n", src)

	// Tokenize
	tokens, err := compiler.Tokenize(src)
	if err != nil {
		return fmt.Errorf("tokenize error: %w", err)
	}
	fmt.Fprintf(w, "Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		if !tok.Type.Ignorable() {
			fmt.Fprintln(w, " ", tok)
		}
	}
	fmt.Fprintln(w)

	// Parse
	root, err := compiler.Parse(tokens)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	fmt.Fprintf(w, "AST (%d nodes)\n  %s\n\n", compiler.Count(root), root)

	// Optimize
	opt := root.Optimize()
	fmt.Fprintf(w, "Optimized AST (%d nodes)\n  %s\n\n", compiler.Count(opt), opt)

	// Lower
	mod, err := codegen.Lower(opt, codegen.TargetConfig{Language: lang})
	if err != nil {
		return fmt.Errorf("lowering error: %w", err)
	}
	fmt.Fprintln(w, "Lowered")
	for _, s := range mod.Body {
		fmt.Fprintln(w, " ", s)
	}
	fmt.Fprintln(w)

	// Render
	out, err := codegen.Render(mod)
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	fmt.Fprintf(w, "Generated %s\n%s", mod.Config.Language, out)
	return nil
}
