package checker

import (
	"fmt"

	"github.com/nxgtri/funxycheck/internal/checkast"
	"github.com/nxgtri/funxycheck/internal/diag"
	"github.com/nxgtri/funxycheck/internal/tenv"
	"github.com/nxgtri/funxycheck/internal/types"
)

// Checker drives one pass over a checkast.Block against one tenv.Env,
// reporting diagnostics to a sink and resolving require() calls through a
// ModuleLoader. A Checker is single-use and single-threaded; run one per
// file, optionally fanned out by internal/orchestrator.
type Checker struct {
	env      *tenv.Env
	sink     diag.Sink
	loader   ModuleLoader
	modules  *moduleState
	exportTy *types.Ty
}

// moduleState is shared by a Checker and every sibling Checker it spawns to
// check a required module's block, so a path required from two different
// places in a require graph is only ever checked once and a require cycle
// is caught rather than recursing forever.
type moduleState struct {
	loaded  map[string]types.Ty
	loading map[string]bool
}

func New(env *tenv.Env, sink diag.Sink, loader ModuleLoader) *Checker {
	if loader == nil {
		loader = NopLoader{}
	}
	return &Checker{
		env:     env,
		sink:    sink,
		loader:  loader,
		modules: &moduleState{loaded: map[string]types.Ty{}, loading: map[string]bool{}},
	}
}

// ModuleExport is the type a require() of this block resolves to once it
// has been checked: the type of its first top-level return value, or Nil
// if the block never returns one. A module most often communicates what it
// exports by assigning globals (visible to the requiring file because it
// shares the same tenv.Context) rather than by returning a value at all.
func (c *Checker) ModuleExport() types.Ty {
	if c.exportTy != nil {
		return *c.exportTy
	}
	return types.TNil()
}

// CheckBlock visits every statement of b in order, reporting each error it
// encounters to the sink and continuing past it (so one bad statement
// doesn't hide errors in the rest of the file) and returns an aggregate
// error if any statement failed.
func (c *Checker) CheckBlock(b *checkast.Block) error {
	var failed bool
	for _, s := range b.Stmts {
		if err := c.visitStmt(s); err != nil {
			failed = true
			c.report(s.Span(), err)
		}
	}
	if failed {
		return fmt.Errorf("checking failed")
	}
	return nil
}

func (c *Checker) report(span diag.Span, err error) {
	c.sink.Report(&diag.Error{
		Code:     "E_TYPE",
		Message:  err.Error(),
		Span:     span,
		Severity: diag.SeverityError,
	})
}

func (c *Checker) ctx() *tenv.Context { return c.env.Context() }

func (c *Checker) visitStmt(s checkast.Stmt) error {
	switch n := s.(type) {
	case *checkast.LocalDecl:
		return c.visitLocalDecl(n)
	case *checkast.Assign:
		return c.visitAssign(n)
	case *checkast.If:
		return c.visitIf(n)
	case *checkast.While:
		return c.visitWhile(n)
	case *checkast.NumericFor:
		return c.visitNumericFor(n)
	case *checkast.GenericFor:
		return c.visitGenericFor(n)
	case *checkast.FuncDecl:
		return c.visitFuncDecl(n)
	case *checkast.Return:
		return c.visitReturn(n)
	case *checkast.ExprStmt:
		_, err := c.visitExpr(n.X)
		return err
	case *checkast.Assume:
		return c.visitAssume(n)
	default:
		return fmt.Errorf("unsupported statement %T", s)
	}
}

func (c *Checker) visitLocalDecl(n *checkast.LocalDecl) error {
	vals := make([]types.Ty, len(n.Names))
	for i := range n.Names {
		if i < len(n.Values) {
			t, err := c.visitExpr(n.Values[i])
			if err != nil {
				return err
			}
			vals[i] = t
		} else {
			vals[i] = types.TNil()
		}
	}
	for i, name := range n.Names {
		declared := vals[i]
		if i < len(n.Kinds) && n.Kinds[i] != nil {
			kt, err := kindToTy(n.Kinds[i], c.ctx())
			if err != nil {
				return err
			}
			if err := declared.AssertSub(kt, c.ctx()); err != nil {
				return fmt.Errorf("initializer for %q does not match its declared type: %w", name, err)
			}
			declared = kt
		}
		c.env.AddLocalVar(name, &tenv.TyInfo{Ty: declared})
	}
	return nil
}

func (c *Checker) visitAssign(n *checkast.Assign) error {
	for i, target := range n.Targets {
		var val types.Ty = types.TDynamic(types.DynUser)
		if i < len(n.Values) {
			t, err := c.visitExpr(n.Values[i])
			if err != nil {
				return err
			}
			val = t
		}
		switch tgt := target.(type) {
		case *checkast.NameExpr:
			if err := c.env.AssignToVar(tgt.Name, &tenv.TyInfo{Ty: val}); err != nil {
				return err
			}
		case *checkast.IndexExpr:
			if _, err := c.visitExpr(tgt); err != nil {
				return err
			}
			// structural table-field assignment compatibility is left to
			// the table shape lattice at read time; no extra constraint
			// is issued here beyond having evaluated the target.
		default:
			return fmt.Errorf("invalid assignment target %T", target)
		}
	}
	return nil
}

func (c *Checker) visitIf(n *checkast.If) error {
	for i, cond := range n.Conds {
		if _, err := c.visitExpr(cond); err != nil {
			return err
		}
		if err := c.visitBlock(n.Blocks[i]); err != nil {
			return err
		}
	}
	if n.Else != nil {
		return c.visitBlock(n.Else)
	}
	return nil
}

func (c *Checker) visitWhile(n *checkast.While) error {
	if _, err := c.visitExpr(n.Cond); err != nil {
		return err
	}
	return c.visitBlock(n.Body)
}

// visitNumericFor binds the loop variable as Integer, not a plain
// (possibly fractional) Number, per the later-generation behavior this
// module carries forward: a `for i = 1, 10 do ... end` loop always steps
// over whole numbers even if its bounds happen to be written as floats.
func (c *Checker) visitNumericFor(n *checkast.NumericFor) error {
	for _, e := range []checkast.Expr{n.Start, n.Stop} {
		t, err := c.visitExpr(e)
		if err != nil {
			return err
		}
		if !t.IsDynamic() && !t.Flags().IsNumeric() {
			return fmt.Errorf("numeric for-loop bound must be a number, got %s", t)
		}
	}
	if n.Step != nil {
		if _, err := c.visitExpr(n.Step); err != nil {
			return err
		}
	}
	c.env.Enter(tenv.NewScope())
	defer c.env.Leave()
	c.env.AddLocalVar(n.Var, &tenv.TyInfo{Ty: types.TInt(types.NumbersInt())})
	return c.visitBlock(n.Body)
}

func (c *Checker) visitGenericFor(n *checkast.GenericFor) error {
	for _, e := range n.Exprs {
		if _, err := c.visitExpr(e); err != nil {
			return err
		}
	}
	c.env.Enter(tenv.NewScope())
	defer c.env.Leave()
	for _, v := range n.Vars {
		c.env.AddLocalVar(v, &tenv.TyInfo{Ty: types.TDynamic(types.DynUser)})
	}
	return c.visitBlock(n.Body)
}

func (c *Checker) visitFuncDecl(n *checkast.FuncDecl) error {
	ft, err := c.visitFuncExpr(n.Func)
	if err != nil {
		return err
	}
	return c.env.AssignToVar(n.Name, &tenv.TyInfo{Ty: ft})
}

func (c *Checker) visitReturn(n *checkast.Return) error {
	for i, v := range n.Values {
		t, err := c.visitExpr(v)
		if err != nil {
			return err
		}
		if i == 0 && c.exportTy == nil {
			c.exportTy = &t
		}
	}
	return nil
}

// visitRequire resolves a require() call: loads the target path's block
// through the configured ModuleLoader and checks it in a sibling Checker
// over a fresh tenv.Env against the SAME tenv.Context, so any global the
// module declares becomes visible in this file's own Env too — a module is
// checked once per path no matter how many times it's required, and a
// path still being checked when it's required again is a require cycle
// rather than infinite recursion.
func (c *Checker) visitRequire(n *checkast.RequireExpr) (types.Ty, error) {
	if exp, ok := c.modules.loaded[n.Path]; ok {
		return types.TBuiltinAttr(types.NewBuiltin(types.BuiltinRequire, exp), exp), nil
	}
	if c.modules.loading[n.Path] {
		return types.Ty{}, fmt.Errorf("require(%q) forms a cycle", n.Path)
	}

	block, err := c.loader.Load(n.Path)
	if err != nil {
		return types.Ty{}, fmt.Errorf("require(%q) failed: %w", n.Path, err)
	}

	c.modules.loading[n.Path] = true
	sub := &Checker{
		env:     tenv.NewEnv(c.env.Context()),
		sink:    c.sink,
		loader:  c.loader,
		modules: c.modules,
	}
	checkErr := sub.CheckBlock(block)
	delete(c.modules.loading, n.Path)
	if checkErr != nil {
		return types.Ty{}, fmt.Errorf("require(%q): module failed to check", n.Path)
	}

	exp := sub.ModuleExport()
	c.modules.loaded[n.Path] = exp
	return types.TBuiltinAttr(types.NewBuiltin(types.BuiltinRequire, exp), exp), nil
}

func (c *Checker) visitAssume(n *checkast.Assume) error {
	t, err := kindToTy(n.Kind, c.ctx())
	if err != nil {
		return err
	}
	c.env.AssumeVar(n.Name, &tenv.TyInfo{Ty: t})
	return nil
}

func (c *Checker) visitBlock(b *checkast.Block) error {
	c.env.Enter(tenv.NewScope())
	defer c.env.Leave()
	for _, s := range b.Stmts {
		if err := c.visitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// visitFuncExpr checks a function literal's body in a fresh scope carrying
// its own Frame. The Frame is always installed explicitly — even when the
// function declares no vararg, in which case Frame.Vararg is left nil —
// specifically so that tenv.Env.GetFrame stops its outward walk at this
// function's boundary instead of falling through to an enclosing
// function's Frame and inheriting its "..." binding.
func (c *Checker) visitFuncExpr(n *checkast.FuncExpr) (types.Ty, error) {
	paramTys := make([]types.Ty, len(n.Params))
	for i, k := range n.Kinds {
		if k == nil {
			paramTys[i] = types.TDynamic(types.DynUser)
			continue
		}
		t, err := kindToTy(k, c.ctx())
		if err != nil {
			return types.Ty{}, err
		}
		paramTys[i] = t
	}
	for i := len(n.Kinds); i < len(n.Params); i++ {
		paramTys[i] = types.TDynamic(types.DynUser)
	}

	retTys := make([]types.Ty, len(n.Returns))
	for i, k := range n.Returns {
		t, err := kindToTy(k, c.ctx())
		if err != nil {
			return types.Ty{}, err
		}
		retTys[i] = t
	}
	returns := types.TySeq{Fixed: retTys}

	frame := &tenv.Frame{Returns: types.TFunc(types.FunctionsSimple(types.Function{
		Args:    types.TySeq{Fixed: paramTys},
		Returns: returns,
	}))}
	if n.Vararg {
		v := types.TDynamic(types.DynUser)
		frame.Vararg = &tenv.TyInfo{Ty: v}
	}

	c.env.Enter(tenv.NewFunctionScope(frame))
	defer c.env.Leave()
	savedExport := c.exportTy
	defer func() { c.exportTy = savedExport }()
	for i, p := range n.Params {
		c.env.AddLocalVar(p, &tenv.TyInfo{Ty: paramTys[i]})
	}
	if n.Vararg {
		c.env.AddLocalVar("...", frame.Vararg)
	}
	if err := func() error {
		for _, s := range n.Body.Stmts {
			if err := c.visitStmt(s); err != nil {
				return err
			}
		}
		return nil
	}(); err != nil {
		return types.Ty{}, err
	}

	args := types.TySeq{Fixed: paramTys}
	if n.Vararg {
		v := types.TDynamic(types.DynUser)
		args.Var = &v
	}
	return types.TFunc(types.FunctionsSimple(types.Function{Args: args, Returns: returns})), nil
}
