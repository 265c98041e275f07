package types

import (
	"fmt"

	"github.com/nxgtri/funxycheck/internal/config"
)

// Mark identifies one boolean flag variable tracked by the mark solver in
// package marks. It lives here, rather than in marks itself, for the same
// reason TVar lives here rather than in package constraints: the type
// algebra (Slot, in particular) needs to name a Mark without this package
// importing the package that solves it, since that package already imports
// this one.
type Mark uint32

// String normalizes to a fixed placeholder under IsTestMode, same as Ty's t?
// collapsing, so a mark's allocation order can't leak into deterministic
// test output.
func (m Mark) String() string {
	if config.IsTestMode {
		return "m?"
	}
	return fmt.Sprintf("m#%d", uint32(m))
}
