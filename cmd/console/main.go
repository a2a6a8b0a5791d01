// Command console is the minimal front end: run a program, or translate it
// to Python or Go.
//
//	console -f hello.b
//	console -o -py -c '++++++++[>++++++++<-]>+.' -out a.py
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gobf/pkg/codegen"
	"gobf/pkg/logging"
	"gobf/pkg/machine"
	"gobf/pkg/program"
	"gobf/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main with its streams passed in. It returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(stderr)
	code := fs.String("c", "", "program text")
	file := fs.String("f", "", "program file")
	optimize := fs.Bool("o", false, "fold runs before running or translating")
	toPython := fs.Bool("py", false, "print Python source instead of running")
	toGo := fs.Bool("go", false, "print Go source instead of running")
	out := fs.String("out", "", "write translated source to this file")
	policy := fs.String("policy", "wrap", "tape policy: wrap, strict or grow")
	verbose := fs.Bool("v", false, "log run details to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if (*code == "") == (*file == "") {
		fmt.Fprintln(stderr, "exactly one of -c or -f is required")
		return 2
	}
	if *toPython && *toGo {
		fmt.Fprintln(stderr, "use either -py or -go, not both")
		return 2
	}

	src := *code
	if *file != "" {
		var err error
		if src, err = utils.ReadSource(*file); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	p, err := program.Compile(src)
	if err != nil {
		fmt.Fprintf(stderr, "compilation failed: %v\n", err)
		return 1
	}
	if *optimize {
		p = p.Optimize()
	}

	if *toPython || *toGo {
		cfg := codegen.DefaultTargetConfig()
		if *toPython {
			cfg.Language = codegen.LanguagePython
		}
		gen, err := p.GenerateSource(cfg)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if *out == "" {
			fmt.Fprint(stdout, gen)
			return 0
		}
		if err := utils.WriteOutput(*out, []byte(gen)); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	tp, err := machine.ParsePolicy(*policy)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger := logging.Discard()
	if *verbose {
		lc := logging.DefaultConfig("console")
		lc.Level = "debug"
		lc.Output = stderr
		logger = logging.New(lc)
	}

	w := bufio.NewWriter(stdout)
	m := machine.New(
		machine.WithInput(stdin),
		machine.WithOutput(w),
		machine.WithPolicy(tp),
		machine.WithLogger(logger),
	)
	runErr := m.Run(context.Background(), p.Root())
	w.Flush()
	if runErr != nil {
		if errors.Is(runErr, machine.ErrEndOfInput) {
			fmt.Fprintln(stderr, "end of input")
		} else {
			fmt.Fprintf(stderr, "run failed: %v\n", runErr)
		}
		return 1
	}
	return 0
}
