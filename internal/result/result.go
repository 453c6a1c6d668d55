// Package result carries asynchronous outcomes from background work to
// foreground observers. A Holder retains the latest Result for repeatable
// observation; an Event delivers a Result to exactly one consumer.
package result

import "sync"

// Status describes the lifecycle stage of an asynchronous operation.
type Status int

const (
	StatusLoading Status = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

// String returns the status name for logs.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is a tagged asynchronous outcome: a status plus either a success
// value or a failure message.
type Result[T any] struct {
	Status  Status
	Value   T
	Message string
}

// Loading builds a Result in the loading state.
func Loading[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

// Pending builds a Result for work that is queued but not yet started.
func Pending[T any]() Result[T] {
	return Result[T]{Status: StatusPending}
}

// Success builds a successful Result carrying value.
func Success[T any](value T) Result[T] {
	return Result[T]{Status: StatusSuccess, Value: value}
}

// Failure builds a failed Result carrying a human-readable message.
func Failure[T any](message string) Result[T] {
	return Result[T]{Status: StatusFailure, Message: message}
}

// IsSuccess reports whether the result completed successfully.
func (r Result[T]) IsSuccess() bool { return r.Status == StatusSuccess }

// IsFailure reports whether the result completed with a failure.
func (r Result[T]) IsFailure() bool { return r.Status == StatusFailure }

// IsTerminal reports whether the operation has finished either way.
func (r Result[T]) IsTerminal() bool { return r.IsSuccess() || r.IsFailure() }

// Holder retains the latest Result and fans it out to subscribers. Every new
// subscriber immediately receives the current state, so observers attached
// after the fact never miss the terminal outcome. Slow subscribers are
// conflated to the latest value rather than blocking Set.
type Holder[T any] struct {
	mu     sync.Mutex
	latest Result[T]
	set    bool
	subs   map[int]chan Result[T]
	nextID int
}

// NewHolder creates an empty Holder.
func NewHolder[T any]() *Holder[T] {
	return &Holder[T]{subs: make(map[int]chan Result[T])}
}

// Set stores res as the latest state and notifies all subscribers.
func (h *Holder[T]) Set(res Result[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = res
	h.set = true
	for _, ch := range h.subs {
		h.offer(ch, res)
	}
}

// Latest returns the current state and whether one has ever been set.
func (h *Holder[T]) Latest() (Result[T], bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.set
}

// Subscribe registers an observer. The returned channel first yields the
// current state when one exists, then every subsequent Set. The cancel
// function removes the subscription and closes the channel.
func (h *Holder[T]) Subscribe() (<-chan Result[T], func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Result[T], 1)
	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	if h.set {
		h.offer(ch, h.latest)
	}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// offer replaces a stale buffered value so the subscriber always sees the
// newest state. Caller holds h.mu.
func (h *Holder[T]) offer(ch chan Result[T], res Result[T]) {
	for {
		select {
		case ch <- res:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Event wraps a Result for single consumption. Consume hands the result to
// exactly one caller across all goroutines; Peek inspects without consuming.
type Event[T any] struct {
	mu       sync.Mutex
	consumed bool
	result   Result[T]
}

// NewEvent wraps res in a fresh unconsumed Event.
func NewEvent[T any](res Result[T]) *Event[T] {
	return &Event[T]{result: res}
}

// Consume returns the wrapped result and true exactly once; later calls from
// any goroutine report the event as already handled.
func (e *Event[T]) Consume() (Result[T], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.consumed {
		return Result[T]{}, false
	}
	e.consumed = true
	return e.result, true
}

// Peek returns the wrapped result without consuming it. Diagnostic use only.
func (e *Event[T]) Peek() Result[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Consumed reports whether the event has been handled.
func (e *Event[T]) Consumed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.consumed
}
