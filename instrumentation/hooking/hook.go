// Package hooking lets observers attach to the scheduler and the
// synchronization loop without those types knowing about them.
package hooking

// HookPos names a point in the event lifecycle where hooks fire. Positions
// are compared by pointer, so each one is declared once as a package
// variable.
type HookPos struct {
	Name string
}

// HookCtx is passed to every hook invocation.
type HookCtx struct {
	// Domain raised the hook.
	Domain Hookable

	// Pos tells where in the event lifecycle the hook fires.
	Pos *HookPos

	// Item is the scheduled event being handled.
	Item any
}

// Hookable is implemented by everything observers can attach to.
type Hookable interface {
	// AcceptHook attaches a hook. Attach hooks before running; they stay
	// attached for good.
	AcceptHook(hook Hook)

	// NumHooks counts the attached hooks.
	NumHooks() int

	// Hooks lists the attached hooks in attachment order.
	Hooks() []Hook

	// InvokeHook calls every attached hook with ctx.
	InvokeHook(ctx HookCtx)
}

// Hook observes a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc turns a function into a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase keeps the hooks of a Hookable. Embed it to get the whole
// interface.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase returns a HookableBase with no hook attached.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// NumHooks counts the attached hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks lists the attached hooks in attachment order.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// AcceptHook attaches a hook. Attaching the same hook value twice panics.
// Functions cannot be compared, so a HookFunc is always attached.
func (h *HookableBase) AcceptHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); !isFunc && h.isAttached(hook) {
		panic("hooking: hook attached twice")
	}

	h.hooks = append(h.hooks, hook)
}

func (h *HookableBase) isAttached(hook Hook) bool {
	for _, attached := range h.hooks {
		if attached == hook {
			return true
		}
	}

	return false
}

// InvokeHook calls every attached hook with ctx, in attachment order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
