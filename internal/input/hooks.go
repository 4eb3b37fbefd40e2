package input

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/input/key"
)

// HandlerPriority defines the delivery order for notification handlers.
// Lower values run first; equal priorities run in registration order.
type HandlerPriority int

const (
	// PriorityHigh runs early.
	PriorityHigh HandlerPriority = -100
	// PriorityNormal is the default priority.
	PriorityNormal HandlerPriority = 0
	// PriorityLow runs late.
	PriorityLow HandlerPriority = 100
)

// HandlerID identifies a registered notification handler.
type HandlerID uint64

// Notification kinds.
const (
	NotifyLayoutChange = "layoutchange"
	NotifyKeyCancel    = "keycancel"
)

type handlerReg struct {
	id       HandlerID
	kind     string
	priority HandlerPriority
	layout   func()
	cancel   func(key.Code)
}

// notifier delivers layoutchange and keycancel notifications. Each handler
// is isolated: a panic is recovered, logged and counted, and delivery
// continues with the next handler.
type notifier struct {
	mu       sync.Mutex
	handlers []handlerReg
	nextID   HandlerID
	sorted   bool

	log     zerolog.Logger
	metrics *Metrics
}

func newNotifier(log zerolog.Logger, m *Metrics) *notifier {
	return &notifier{log: log, metrics: m, sorted: true}
}

func (n *notifier) add(reg handlerReg) HandlerID {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	reg.id = n.nextID
	n.handlers = append(n.handlers, reg)
	n.sorted = false
	return reg.id
}

func (n *notifier) remove(id HandlerID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := range n.handlers {
		if n.handlers[i].id == id {
			n.handlers = append(n.handlers[:i], n.handlers[i+1:]...)
			return true
		}
	}
	return false
}

func (n *notifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.handlers)
}

// snapshot returns the handlers of kind in delivery order.
func (n *notifier) snapshot(kind string) []handlerReg {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.sorted {
		sort.SliceStable(n.handlers, func(i, j int) bool {
			return n.handlers[i].priority < n.handlers[j].priority
		})
		n.sorted = true
	}

	out := make([]handlerReg, 0, len(n.handlers))
	for _, h := range n.handlers {
		if h.kind == kind {
			out = append(out, h)
		}
	}
	return out
}

func (n *notifier) emitLayoutChange() {
	for _, h := range n.snapshot(NotifyLayoutChange) {
		n.run(h, func() { h.layout() })
	}
}

func (n *notifier) emitKeyCancel(c key.Code) {
	for _, h := range n.snapshot(NotifyKeyCancel) {
		n.run(h, func() { h.cancel(c) })
	}
}

func (n *notifier) run(h handlerReg, call func()) {
	defer func() {
		if r := recover(); r != nil {
			n.metrics.recordHandlerPanic()
			n.log.Error().
				Str("notification", h.kind).
				Uint64("handler", uint64(h.id)).
				Err(fmt.Errorf("%v", r)).
				Msg("notification handler panicked")
		}
	}()
	call()
}

// OnLayoutChange registers fn to run after the layout table is refreshed.
func (e *Engine) OnLayoutChange(fn func()) HandlerID {
	return e.OnLayoutChangeWithPriority(fn, PriorityNormal)
}

// OnLayoutChangeWithPriority registers fn with an explicit priority.
func (e *Engine) OnLayoutChangeWithPriority(fn func(), p HandlerPriority) HandlerID {
	return e.notify.add(handlerReg{kind: NotifyLayoutChange, priority: p, layout: fn})
}

// OnKeyCancel registers fn to run for every key that is forcibly released
// by focus or visibility loss.
func (e *Engine) OnKeyCancel(fn func(key.Code)) HandlerID {
	return e.OnKeyCancelWithPriority(fn, PriorityNormal)
}

// OnKeyCancelWithPriority registers fn with an explicit priority.
func (e *Engine) OnKeyCancelWithPriority(fn func(key.Code), p HandlerPriority) HandlerID {
	return e.notify.add(handlerReg{kind: NotifyKeyCancel, priority: p, cancel: fn})
}

// RemoveHandler unregisters a notification handler.
func (e *Engine) RemoveHandler(id HandlerID) bool {
	return e.notify.remove(id)
}
