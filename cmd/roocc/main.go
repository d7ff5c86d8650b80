// Command roocc reads a ROOC source file, compiles it through the full
// pipeline, and prints the solved assignment, mirroring cmd/rage's
// read-file/compile/report-errors/execute shape.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/internal/simplex"
	"github.com/rooc-lang/rooc/pkg/rooc"
	"golang.org/x/term"
)

func main() {
	trace := flag.Bool("trace", false, "print the simplex pivot trace before the solution")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: roocc [-trace] <problem.rooc>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading file: %v\n", err)
		os.Exit(1)
	}
	src := string(source)

	prob, cerrs := rooc.Parse(src)
	if len(cerrs) > 0 {
		reportCompilationErrors(filename, src, cerrs)
		os.Exit(1)
	}

	fns := functions.NewMap()
	if cerrs := rooc.TypeCheck(prob, fns); len(cerrs) > 0 {
		reportCompilationErrors(filename, src, cerrs)
		os.Exit(1)
	}

	model, err := rooc.Transform(prob, fns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(1)
	}

	lm, err := rooc.Linearize(model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(1)
	}

	var steps []simplex.StepAction
	var tracePtr *[]simplex.StepAction
	if *trace {
		tracePtr = &steps
	}

	sol, err := rooc.SolveTrace(lm, tracePtr)
	if err != nil {
		if se, ok := err.(errs.SolverError); ok {
			fmt.Fprintf(os.Stderr, "%s: %s\n", filename, se)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		}
		os.Exit(1)
	}

	if *trace {
		printTrace(steps)
	}
	printSolution(sol)
}

// reportCompilationErrors renders each error with the offending source line
// attached, truncated to the terminal width when stderr is a TTY so a long
// line doesn't wrap.
func reportCompilationErrors(filename, src string, cerrs []errs.CompilationError) {
	width := 0
	if term.IsTerminal(int(os.Stderr.Fd())) {
		if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil {
			width = w
		}
	}

	fmt.Fprintf(os.Stderr, "%s: compilation failed with %d error(s):\n", filename, len(cerrs))
	for _, e := range cerrs {
		e = e.WithSnippet(src)
		if width > 0 && len(e.Snippet) > width {
			snippet := e.Snippet
			e.Snippet = ""
			fmt.Fprintf(os.Stderr, "  %s:%s\n", filename, e.Error())
			fmt.Fprintf(os.Stderr, "    %s...\n", snippet[:width])
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s:%s\n", filename, e.Error())
	}
}

func printTrace(steps []simplex.StepAction) {
	fmt.Println("pivot trace:")
	for i, s := range steps {
		if s.Finished {
			fmt.Printf("  %d: finished\n", i)
			continue
		}
		fmt.Printf("  %d: pivot entering=%d leaving=%d ratio=%g\n", i, s.Entering, s.Leaving, s.Ratio)
	}
}

func printSolution(sol rooc.LpSolution) {
	for _, a := range sol.Assignments {
		fmt.Printf("%s = %v\n", a.Name, a.Value.AsFloat())
	}
	fmt.Printf("objective = %g\n", sol.Value)
}
