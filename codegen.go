package snc

import (
	"fmt"

	sncruntime "github.com/sindarin-lang/snc/runtime"
)

// Generator walks a type-checked, optimized AST and emits C source
// text implementing spec.md §4.7. It keeps just enough state to thread
// the handle/raw ABI decision and arena discipline through nested
// expressions: which arena variable the current scope allocates from,
// whether the current expression's value must be a handle, the
// enclosing function (for return-type coercions), and the stack of
// lambdas currently being lowered (for capture resolution).
type Generator struct {
	config  *Config
	checked bool // current arithmetic mode; spec.md §4.6

	currentArenaVar   string
	exprAsHandle      bool
	currentFunction   *FunctionStmt
	currentReturnType *Type
	lambdaStack       []*LambdaExpr

	prelude    *codeWriter
	lambdaFwd  *codeWriter
	lambdaDefs *codeWriter
	topLevel   *codeWriter
	main       *codeWriter

	lambdaCounter int
	tmpCounter    int
	structsByName map[string]*Type
	mainBody      []string

	// loopDepth and lockStack track enough control-flow context to keep
	// spec.md §5's mutex-release invariant: lockStack records the
	// mutex C expression and loopDepth in effect when each enclosing
	// lock(...) body started, so genReturn/genBreak/genContinue can
	// emit rt_mutex_unlock on every exit path that isn't already
	// captured by a loop opened inside the lock body.
	loopDepth int
	lockStack []lockFrame

	// currentWriter is the codeWriter genStmt is currently emitting
	// into; genLambdaExpr uses it (falling back to topLevel) so a
	// closure's allocation lines land in whichever function body the
	// lambda literal actually appears in, not always main's.
	currentWriter *codeWriter
}

// NewGenerator prepares a Generator; checked is the arithmetic mode
// computed by the driver from --checked/--unchecked and -O level
// (spec.md §4.6: "-O2 implies unchecked unless --checked is given
// explicitly, whichever flag appears later on the command line wins").
func NewGenerator(config *Config, checked bool) *Generator {
	return &Generator{
		config:        config,
		checked:       checked,
		currentArenaVar: "__main_arena__",
		prelude:       newCodeWriter(),
		lambdaFwd:     newCodeWriter(),
		lambdaDefs:    newCodeWriter(),
		topLevel:      newCodeWriter(),
		main:          newCodeWriter(),
		structsByName: make(map[string]*Type),
	}
}

// Generate lowers the whole module and returns the assembled C
// translation unit, sections joined in spec.md §4.7.5's fixed order:
// prelude, lambda forward declarations, lambda definitions, top-level
// declarations, main.
func (g *Generator) Generate(stmts []Stmt) string {
	g.emitPrelude()

	for _, s := range stmts {
		switch d := s.(type) {
		case *StructDeclStmt:
			g.genStructDecl(d)
			g.structsByName[d.Name] = d.Type
		case *FunctionStmt:
			g.genTopLevelFunction(d)
		case *ImportStmt:
			// Imported statements are flattened into stmts by the driver
			// before Generate is called; nothing further to do per-node.
		default:
			g.genMainStmt(s)
		}
	}

	g.emitMainWrapper()

	out := g.prelude.String()
	out += g.lambdaFwd.String()
	out += g.lambdaDefs.String()
	out += g.topLevel.String()
	out += g.main.String()
	return out
}

// emitPrelude writes the runtime support library inline ahead of the
// generated program, mirroring the teacher's GenCEvalWithHeader /
// RemoveLib option: by default the output .c file is standalone and
// embeds the runtime rather than requiring a separate header (spec.md
// §4.7.5).
func (g *Generator) emitPrelude() {
	g.prelude.Line("/* generated by snc, do not edit */")
	g.prelude.Raw("%s", sncruntime.Source)
	g.prelude.Line("")
}

func (g *Generator) emitMainWrapper() {
	g.main.Line("int main(int argc, char **argv) {")
	g.main.Indent()
	g.main.Line("rt_arena *%s = rt_arena_create(0);", g.currentArenaVar)
	for _, line := range g.mainBody {
		g.main.Line("%s", line)
	}
	g.main.Line("rt_arena_destroy(%s);", g.currentArenaVar)
	g.main.Line("return 0;")
	g.main.Dedent()
	g.main.Line("}")
}

// genMainStmt lowers one top-level (non-function, non-struct)
// statement into the script body that runs under main()'s arena.
func (g *Generator) genMainStmt(s Stmt) {
	w := newCodeWriter()
	g.genStmt(s, w)
	g.mainBody = append(g.mainBody, splitLines(w.String())...)
}

func (g *Generator) newTemp(prefix string) string {
	g.tmpCounter++
	return fmt.Sprintf("__%s%d", prefix, g.tmpCounter)
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
