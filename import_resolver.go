package snc

import "github.com/pkg/errors"

// ImportResolver loads the source of an imported module given the
// path written in an `import "path"` statement. It returns the
// module's bytes and the filename to attribute diagnostics to. The
// driver supplies the concrete implementation (a filesystem read of
// the path as written); the parser only knows it as
// an injected callback (spec.md §4.3 "Import resolution": "via an
// injected resolver callback").
type ImportResolver func(path string) (src []byte, filename string, err error)

// resolveImport loads and parses path exactly once per Parser
// instance. Cycles — A imports B imports A — are broken by memoizing
// already-parsed paths: re-encountering a memoized path is a no-op,
// since its statements are already in p.ImportedStmts.
func (p *Parser) resolveImport(path string, line int) {
	if p.resolver == nil {
		p.diags.Report(PhaseParse, line, "import %q: no import resolver configured", path)
		return
	}
	if p.importing[path] {
		// Already being resolved higher up the import chain: this is
		// the cycle-closing edge, not an error (spec.md §4.3).
		return
	}
	if p.imported[path] {
		return
	}
	p.importing[path] = true
	defer delete(p.importing, path)

	src, filename, err := p.resolver(path)
	if err != nil {
		p.diags.Report(PhaseParse, line, "import %q: %s", path, errors.Cause(err))
		return
	}

	p.imported[path] = true

	sub := NewParser(filename, src, p.diags, p.resolver)
	sub.importing = p.importing
	sub.imported = p.imported
	stmts := sub.Parse()
	p.ImportedStmts = append(p.ImportedStmts, sub.ImportedStmts...)
	p.ImportedStmts = append(p.ImportedStmts, stmts...)
}
