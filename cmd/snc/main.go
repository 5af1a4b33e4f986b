// Command snc compiles a single SN source file to a native executable
// (spec.md §6). Exit code 0 is success, 1 is a compilation error
// (lex/parse/semantic/codegen diagnostics), 2 is CLI misuse.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	snc "github.com/sindarin-lang/snc"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	opts := snc.DefaultOptions()

	var (
		optO0, optO1, optO2, optNoOpt bool
		checkedFlag, uncheckedFlag    bool
	)

	root := &cobra.Command{
		Use:           "snc <source.sn>",
		Short:         "compile an SN source file to a native executable",
		Version:       "dev",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Source = args[0]

			switch {
			case optNoOpt:
				opts.NoOpt = true
				opts.OptLevel = 0
			case optO2:
				opts.OptLevel = 2
			case optO1:
				opts.OptLevel = 1
			case optO0:
				opts.OptLevel = 0
			}

			// Whichever of --checked/--unchecked was declared later in
			// argv wins (spec.md §4.6); cobra/pflag don't track argv
			// order themselves, so walk the raw args to find it.
			if checkedFlag || uncheckedFlag {
				opts.CheckedSet = true
				opts.Checked = lastCheckedFlagWins(argv)
			}
			opts.OptFlagIndex = lastFlagIndex(argv, "-O0", "-O1", "-O2", "--no-opt")
			opts.CheckedFlagIndex = lastFlagIndex(argv, "--checked", "--unchecked")

			logger := newLogger(opts.Verbose, opts.Debug)
			defer logger.Sync()

			compiler := snc.NewCompiler(opts, logger.Sugar())
			out, err := compiler.Run()
			if err != nil {
				return err
			}
			if opts.Verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			}
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.Output, "output", "o", "", "output path (executable, or the .c file under --emit-c)")
	flags.BoolVar(&opts.EmitC, "emit-c", false, "emit the generated C source instead of compiling it")
	flags.BoolVar(&opts.KeepC, "keep-c", false, "keep the intermediate .c file alongside the executable")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.Debug, "debug", "g", false, "emit debug symbols (-g) when invoking the C compiler")
	flags.IntVarP(&opts.LogLevel, "log-level", "l", opts.LogLevel, "diagnostic log level (0-4)")
	flags.BoolVar(&optO0, "O0", false, "disable optimizations")
	flags.BoolVar(&optO1, "O1", false, "default optimization level")
	flags.BoolVar(&optO2, "O2", false, "aggressive optimizations, implies unchecked arithmetic")
	flags.BoolVar(&optNoOpt, "no-opt", false, "alias for -O0")
	flags.BoolVar(&checkedFlag, "checked", false, "trap on arithmetic overflow")
	flags.BoolVar(&uncheckedFlag, "unchecked", false, "disable overflow trapping")

	// pflag reads "-O2" as a cluster of one-letter flags, so the
	// single-dash spellings are passed to it in their long form.
	cobraArgs := make([]string, len(argv))
	for i, a := range argv {
		switch a {
		case "-O0", "-O1", "-O2":
			a = "-" + a
		}
		cobraArgs[i] = a
	}
	root.SetArgs(cobraArgs)
	if err := root.Execute(); err != nil {
		if isUsageError(err) {
			fmt.Fprintln(os.Stderr, "snc:", err)
			return 2
		}
		fmt.Fprintln(os.Stderr, "snc:", err)
		return 1
	}
	return 0
}

// lastCheckedFlagWins scans raw argv for the rightmost of
// --checked/--unchecked, since pflag resolves both into their bound
// variables but doesn't expose which one a caller set last.
func lastCheckedFlagWins(argv []string) bool {
	checked := true
	for _, a := range argv {
		switch a {
		case "--checked":
			checked = true
		case "--unchecked":
			checked = false
		}
	}
	return checked
}

// lastFlagIndex returns the rightmost argv position at which any of
// names appears, or -1 if none do — feeds Options.ResolveArithmeticMode
// the ordering lastCheckedFlagWins's boolean result alone can't convey.
func lastFlagIndex(argv []string, names ...string) int {
	idx := -1
	for i, a := range argv {
		for _, n := range names {
			if a == n {
				idx = i
			}
		}
	}
	return idx
}

// isUsageError distinguishes CLI misuse (exit 2) from a compilation
// failure (exit 1). cobra reports both unknown flags and wrong
// argument counts as plain errors with no distinguishing type, so this
// matches on the message text cobra itself generates for those cases.
func isUsageError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown flag") ||
		strings.Contains(msg, "unknown shorthand flag") ||
		strings.Contains(msg, "accepts 1 arg") ||
		strings.Contains(msg, "requires at least 1 arg")
}

func newLogger(verbose, debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose || debug {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}
