package snc

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Compiler orchestrates one source file through every pipeline stage:
// lex, parse (including transitive imports), type-check, optimize,
// generate C, and — unless --emit-c is given — invoke the system C
// compiler to produce the final executable (spec.md §2, §6).
type Compiler struct {
	opts   *Options
	log    *zap.SugaredLogger
	config *Config
}

func NewCompiler(opts *Options, log *zap.SugaredLogger) *Compiler {
	return &Compiler{opts: opts, log: log, config: NewConfig()}
}

// Run executes the full pipeline and returns the path to whatever it
// produced (the executable, or the .c file under --emit-c).
func (c *Compiler) Run() (string, error) {
	c.config.ApplyOptimizationLevel(c.opts.OptLevel)
	if c.opts.NoOpt {
		c.opts.OptLevel = 0
		c.config.ApplyOptimizationLevel(0)
	}

	src, err := os.ReadFile(c.opts.Source)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", c.opts.Source)
	}
	scanPragmas(src, c.opts)

	diags := NewDiagnosticSink(c.opts.Source)
	resolver := fileImportResolver(c.opts.Source)

	parser := NewParser(c.opts.Source, src, diags, resolver)
	mainStmts := parser.Parse()
	if diags.HasErrors() {
		return "", diags.Err()
	}

	allStmts := append(append([]Stmt{}, parser.ImportedStmts...), mainStmts...)

	checker := NewChecker(diags, c.config)
	checker.Check(allStmts)
	if diags.HasErrors() {
		return "", diags.Err()
	}
	c.log.Debugw("type check complete", "diagnostics", diags.Count())

	if c.opts.OptLevel > 0 {
		opt := NewOptimizer(c.config)
		allStmts = opt.Run(allStmts)
		stats := opt.Stats()
		c.log.Debugw("optimizer pass complete",
			"stmts_removed", stats.StmtsRemoved,
			"vars_removed", stats.VarsRemoved,
			"noops_simplified", stats.NoopsSimplified,
			"strings_merged", stats.StringsMerged,
			"tail_calls_marked", stats.TailCallsMarked,
		)
	}

	checkedMode := c.opts.ResolveArithmeticMode(c.opts.OptFlagIndex, c.opts.CheckedFlagIndex)
	gen := NewGenerator(c.config, checkedMode)
	cSource := gen.Generate(allStmts)

	cPath := IntermediateCName(c.opts.Source)
	if c.opts.EmitC && c.opts.Output != "" {
		cPath = c.opts.Output
	}
	if err := os.WriteFile(cPath, []byte(cSource), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", cPath)
	}

	if c.opts.EmitC {
		return cPath, nil
	}
	defer func() {
		if !c.opts.KeepC {
			os.Remove(cPath)
		}
	}()

	exePath := c.opts.Output
	if exePath == "" {
		exePath = ExecutableName(c.opts.Source)
	}
	if err := c.invokeCC(cPath, exePath); err != nil {
		return "", err
	}
	return exePath, nil
}

func (c *Compiler) invokeCC(cPath, exePath string) error {
	args := []string{cPath, "-o", exePath, "-lpthread"}
	if c.opts.Debug {
		args = append(args, "-g")
	}
	for _, lib := range c.opts.LinkLibs {
		args = append(args, "-l"+lib)
	}
	args = append(args, c.opts.SourceFiles...)

	cc := "cc"
	if found, err := exec.LookPath("gcc"); err == nil {
		cc = found
	}
	cmd := exec.Command(cc, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "cc failed: %s", stderr.String())
	}
	return nil
}

// scanPragmas reads #pragma snc link "lib" and #pragma snc source
// "file.c" directives out of the leading comment block of src. They
// are the only source of opts.LinkLibs and opts.SourceFiles; the CLI
// has no flags for either (SPEC_FULL.md's build-directive addition to
// spec.md's external-interfaces section).
func scanPragmas(src []byte, opts *Options) {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "#pragma snc ") {
			if line != "" && !strings.HasPrefix(line, "#pragma") && !strings.HasPrefix(line, "#") {
				break
			}
			continue
		}
		rest := strings.TrimPrefix(line, "#pragma snc ")
		fields := strings.Fields(rest)
		if len(fields) < 2 {
			continue
		}
		val := strings.Trim(fields[1], `"`)
		switch fields[0] {
		case "link":
			opts.LinkLibs = append(opts.LinkLibs, val)
		case "source":
			opts.SourceFiles = append(opts.SourceFiles, val)
		}
	}
}

// fileImportResolver returns an ImportResolver that reads each import
// path as written, so a relative path resolves against the working
// directory; mainFile is not consulted.
func fileImportResolver(mainFile string) ImportResolver {
	return func(path string) ([]byte, string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("import %q: %w", path, err)
		}
		return data, path, nil
	}
}
