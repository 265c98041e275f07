// Package checker implements the statement/expression visitor driver: it
// walks a checkast.Block, issuing constraints into the tenv.Context's
// constraint store and mark solver as it goes, and reports diagnostics
// through a diag.Sink. It also hosts the operator typing table and the
// ModuleLoader interface `require()` calls are resolved through.
package checker

import "github.com/nxgtri/funxycheck/internal/checkast"

// ModuleLoader resolves a require() path to the already-parsed block that
// path denotes. The checker core never reads a filesystem or parses source
// itself (out of scope) — a host embeds this module by supplying a
// ModuleLoader that already knows how to turn a path into a checkast.Block,
// however it does that. The checker then checks that block itself, in a
// sibling module environment sharing the requiring file's tenv.Context, so
// that globals (and type variables) the module declares are visible back
// in the requiring file exactly as they would be in the same file.
type ModuleLoader interface {
	Load(path string) (*checkast.Block, error)
}

// NopLoader rejects every require() call, useful for checking a single
// file with no module system wired up.
type NopLoader struct{}

func (NopLoader) Load(path string) (*checkast.Block, error) {
	return nil, &LoadError{Path: path}
}

type LoadError struct {
	Path string
}

func (e *LoadError) Error() string {
	return "no module loader configured to resolve require(" + e.Path + ")"
}
