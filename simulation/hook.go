package simulation

// HookPos names a point in the simulation where hooks are invoked.
type HookPos struct {
	Name string
}

var (
	// HookPosAccess is triggered after every trace entry is resolved. The
	// detail is an AccessResult.
	HookPosAccess = &HookPos{Name: "Access"}

	// HookPosRunEnd is triggered once a run consumed its trace. The detail is
	// the final Counters.
	HookPosRunEnd = &HookPos{Name: "RunEnd"}
)

// HookCtx holds the information about the site that triggered a hook.
type HookCtx struct {
	Domain *Simulator
	Pos    *HookPos
	Detail any
}

// Hook is a short piece of program that the simulator invokes at hook
// positions. Hooks run on the simulation goroutine.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

type hookList struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *hookList) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns the number of hooks registered.
func (h *hookList) NumHooks() int {
	return len(h.hooks)
}

func (h *hookList) invoke(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
