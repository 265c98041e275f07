package checker

import (
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/nxgtri/funxycheck/internal/checkast"
	"github.com/nxgtri/funxycheck/internal/diag"
	"github.com/nxgtri/funxycheck/internal/tenv"
)

// fixtureLoader is a ModuleLoader backed by a fixed set of pre-built
// blocks, standing in for a host that actually reads files off disk.
type fixtureLoader map[string]*checkast.Block

func (f fixtureLoader) Load(path string) (*checkast.Block, error) {
	b, ok := f[path]
	if !ok {
		return nil, &LoadError{Path: path}
	}
	return b, nil
}

// multiFileFixture documents the two-file require() scenario the tests
// below exercise: geometry.lang declares a global function with no
// explicit module-export table, and main.lang requires it purely to reach
// that global. Parsing source text is out of scope for this module, so the
// archive's bodies are documentation of the scenario rather than something
// this package parses itself — the checkast.Block for each named file is
// built directly in Go below, keyed by the same names the archive lists.
const multiFileFixture = `
-- geometry.lang --
function area(w, h)
    return w * h
end

-- main.lang --
local m = require("geometry")
local a = area(3, 4)
`

func geometryModuleBlock() *checkast.Block {
	return &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.FuncDecl{
			Name: "area",
			Func: &checkast.FuncExpr{
				Params:  []string{"w", "h"},
				Kinds:   []checkast.Kind{&checkast.KindName{Name: "Number"}, &checkast.KindName{Name: "Number"}},
				Returns: []checkast.Kind{&checkast.KindName{Name: "Number"}},
				Body: &checkast.Block{Stmts: []checkast.Stmt{
					&checkast.Return{Values: []checkast.Expr{
						&checkast.BinOpExpr{
							Op:    checkast.OpMul,
							Left:  &checkast.NameExpr{Name: "w"},
							Right: &checkast.NameExpr{Name: "h"},
						},
					}},
				}},
			},
		},
	}}
}

func requireAreaCall() *checkast.CallExpr {
	return &checkast.CallExpr{
		Fn: &checkast.NameExpr{Name: "area"},
		Args: []checkast.Expr{
			&checkast.LiteralExpr{Kind: checkast.LitInt, Int: 3},
			&checkast.LiteralExpr{Kind: checkast.LitInt, Int: 4},
		},
	}
}

// TestRequireExposesModuleGlobalsToCaller is spec scenario 12: a required
// module's global declarations must be visible to the requiring file,
// not just whatever value require() itself evaluates to.
func TestRequireExposesModuleGlobalsToCaller(t *testing.T) {
	archive := txtar.Parse([]byte(multiFileFixture))
	have := map[string]bool{}
	for _, f := range archive.Files {
		have[f.Name] = true
	}
	if !have["geometry.lang"] || !have["main.lang"] {
		t.Fatalf("fixture archive missing expected files: %+v", archive.Files)
	}

	loader := fixtureLoader{"geometry": geometryModuleBlock()}
	env := tenv.NewEnv(tenv.NewContext())
	col := diag.NewCollector(false)
	c := New(env, col, loader)

	main := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{
			Names:  []string{"m"},
			Values: []checkast.Expr{&checkast.RequireExpr{Path: "geometry"}},
		},
		&checkast.LocalDecl{
			Names:  []string{"a"},
			Values: []checkast.Expr{requireAreaCall()},
		},
	}}
	if err := c.CheckBlock(main); err != nil {
		t.Fatalf("expected area() to be reachable via the module's shared globals, got %v (diags=%+v)", err, col.Errors())
	}
}

func TestRequireModuleExportRejectsWrongAnnotation(t *testing.T) {
	loader := fixtureLoader{"geometry": geometryModuleBlock()}
	env := tenv.NewEnv(tenv.NewContext())
	col := diag.NewCollector(false)
	c := New(env, col, loader)

	main := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{
			Names:  []string{"m"},
			Values: []checkast.Expr{&checkast.RequireExpr{Path: "geometry"}},
		},
		&checkast.LocalDecl{
			Names:  []string{"a"},
			Kinds:  []checkast.Kind{&checkast.KindName{Name: "String"}},
			Values: []checkast.Expr{requireAreaCall()},
		},
	}}
	if err := c.CheckBlock(main); err == nil {
		t.Fatalf("expected area()'s Number result to fail a String annotation")
	}
}

func TestRequireChecksEachModuleOnlyOnce(t *testing.T) {
	loader := fixtureLoader{"geometry": geometryModuleBlock()}
	env := tenv.NewEnv(tenv.NewContext())
	col := diag.NewCollector(false)
	c := New(env, col, loader)

	main := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{Names: []string{"m1"}, Values: []checkast.Expr{&checkast.RequireExpr{Path: "geometry"}}},
		&checkast.LocalDecl{Names: []string{"m2"}, Values: []checkast.Expr{&checkast.RequireExpr{Path: "geometry"}}},
	}}
	if err := c.CheckBlock(main); err != nil {
		t.Fatalf("unexpected error re-requiring an already-checked module: %v", err)
	}
	if len(c.modules.loaded) != 1 {
		t.Fatalf("expected exactly one cached module entry, got %d", len(c.modules.loaded))
	}
}

func TestRequireMissingPathFails(t *testing.T) {
	env := tenv.NewEnv(tenv.NewContext())
	col := diag.NewCollector(false)
	c := New(env, col, fixtureLoader{})

	main := &checkast.Block{Stmts: []checkast.Stmt{
		&checkast.LocalDecl{
			Names:  []string{"m"},
			Values: []checkast.Expr{&checkast.RequireExpr{Path: "nowhere"}},
		},
	}}
	if err := c.CheckBlock(main); err == nil {
		t.Fatalf("expected requiring an unregistered path to fail")
	}
}
