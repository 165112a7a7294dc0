package kinds

import (
	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds/runner"
)

// RegisterAll wires every built-in task kind spec.md §4.1 enumerates
// against reg, dispatching external commands through r.
// internal/task.RegisterFlowControlKinds must be called separately to add
// include_tasks/include_role, which live alongside the executor to avoid an
// import cycle.
func RegisterAll(reg *task.Registry, r runner.Runner) {
	RegisterFile(reg)
	RegisterTextEdit(reg)
	RegisterExec(reg, r)
	RegisterPackage(reg, r)
	RegisterSystem(reg, r)
	RegisterNetwork(reg, r)
	RegisterInfo(reg)
	RegisterSecurity(reg, r)
}
