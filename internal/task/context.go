package task

import (
	"time"

	"github.com/driftless-hq/driftless-sub001/internal/tmplengine"
	"github.com/driftless-hq/driftless-sub001/internal/varctx"
)

// IncludeDepthLimit bounds include_tasks/include_role recursion (spec.md
// §5 "Concurrency & resource model"); exceeding it fails the include task
// when it runs.
const IncludeDepthLimit = 32

// ExecContext is the per-apply-run state threaded through every task's
// dispatch: the variable context tasks read and write, the template engine
// used to render attributes, and the knobs (dry run, include depth) that
// shape how a kind's executor behaves. DefaultTimeout is carried but no
// kind reads it; each kind takes its timeout from its own attributes.
type ExecContext struct {
	Vars          *varctx.Context
	Engine        *tmplengine.Engine
	DryRun        bool
	IncludeDepth  int
	DefaultTimeout time.Duration
	BaseDir       string

	// Registry lets include_tasks/include_role kinds recurse back into the
	// same executor without an import cycle between task and its own kinds
	// package.
	Registry *Registry
}

// Child returns an ExecContext for a nested include, with an independent
// variable context (spec.md §3 "one Context per apply run, Clone for
// include_tasks children") and the include depth incremented by one.
func (ec *ExecContext) Child() *ExecContext {
	child := *ec
	child.Vars = ec.Vars.Clone()
	child.IncludeDepth = ec.IncludeDepth + 1
	return &child
}
