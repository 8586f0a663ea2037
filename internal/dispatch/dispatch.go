// Package dispatch routes actions to per-surface handlers and enforces the
// multi-selection policy. One Dispatcher is instantiated per surface; the
// handler table is surface-specific but the gate, the result contract, and
// the descending-range application rule are shared.
package dispatch

import (
	"log"
	"runtime"
	"sync"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/editctx"
)

// HandlerFunc performs the concrete document mutation for one action. It
// reports NoOp when the action has no meaningful effect in context.
type HandlerFunc func(act action.Action) Result

// MultiContextFunc supplies the multi-selection context for the current
// selection set. Called once per dispatch, before the policy gate.
type MultiContextFunc func() editctx.MultiContext

// Logger is the minimal logging surface the dispatcher needs. *log.Logger
// satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// Dispatcher routes action ids to handlers for one surface.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	families map[string]HandlerFunc

	multiFn MultiContextFunc
	logger  Logger
}

// New creates a dispatcher. multiFn may be nil for surfaces that never carry
// multiple ranges.
func New(multiFn MultiContextFunc) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		families: make(map[string]HandlerFunc),
		multiFn:  multiFn,
		logger:   log.Default(),
	}
}

// SetLogger replaces the dispatcher's logger.
func (d *Dispatcher) SetLogger(l Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l != nil {
		d.logger = l
	}
}

// Register registers a handler for an exact action id.
func (d *Dispatcher) Register(id string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[id] = fn
}

// RegisterFamily registers a handler for a parametrized id family by prefix
// (e.g. "heading:" handles "heading:1" through "heading:6").
func (d *Dispatcher) RegisterFamily(prefix string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.families[prefix] = fn
}

// Has reports whether a handler is registered for the id.
func (d *Dispatcher) Has(id string) bool {
	return d.lookup(id) != nil
}

func (d *Dispatcher) lookup(id string) HandlerFunc {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if fn, ok := d.handlers[id]; ok {
		return fn
	}
	for prefix, fn := range d.families {
		if len(id) > len(prefix) && id[:len(prefix)] == prefix {
			return fn
		}
	}
	return nil
}

// Perform dispatches an action and reports whether a mutation occurred. This
// is the boundary contract consumed by UI event handlers: a false return
// tells the caller to fall back to a different code path.
func (d *Dispatcher) Perform(act action.Action) bool {
	return d.Dispatch(act).Handled()
}

// Dispatch executes an action and returns the full result. Unknown ids and
// policy-blocked dispatches are NoOp, never errors.
func (d *Dispatcher) Dispatch(act action.Action) Result {
	if !action.Known(act.ID) {
		return NoOpReason("unknown action: " + act.ID)
	}

	if d.multiFn != nil {
		mc := d.multiFn()
		if ok, reason := CanRun(act.ID, mc); !ok {
			return NoOpReason(reason)
		}
	}

	fn := d.lookup(act.ID)
	if fn == nil {
		return NoOpReason("no handler for action: " + act.ID)
	}

	result := d.execute(fn, act)
	if result.Status == StatusError {
		d.mu.RLock()
		logger := d.logger
		d.mu.RUnlock()
		logger.Printf("action %s (%s) recovered: %v", act.ID, act.Source, result.Err)
	}
	return result
}

// execute runs a handler with panic recovery. A panicking handler must not
// take down the host UI thread.
func (d *Dispatcher) execute(fn HandlerFunc, act action.Action) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			result = Errorf("handler panic for %s: %v\n%s", act.ID, r, stack[:n])
		}
	}()

	return fn(act)
}
