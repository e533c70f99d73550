// Package tracing records what happens to every access of a simulation.
// Tracers are simulation hooks and are attached with Simulator.AcceptHook.
package tracing

import (
	"fmt"

	"github.com/sarchlab/cachesim/simulation"
)

func accessFromCtx(ctx simulation.HookCtx) (simulation.AccessResult, bool) {
	if ctx.Pos != simulation.HookPosAccess {
		return simulation.AccessResult{}, false
	}

	r, ok := ctx.Detail.(simulation.AccessResult)

	return r, ok
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
