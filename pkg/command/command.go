package command

import (
	"sort"
	"sync"
)

// ExecuteFunc is the routine run when a command is invoked.
type ExecuteFunc func(param any) error

// CanExecuteFunc reports whether a command is currently enabled.
type CanExecuteFunc func(param any) bool

// Command unites an execute routine and an optional can-execute routine.
// Apart from change subscribers it holds no state.
type Command struct {
	execute    ExecuteFunc
	canExecute CanExecuteFunc

	mu          sync.Mutex
	nextID      int
	subscribers map[int]func()
}

// New creates a command. It panics if execute is nil.
// A nil canExecute means the command is always enabled.
func New(execute ExecuteFunc, canExecute CanExecuteFunc) *Command {
	if execute == nil {
		panic("command: nil execute routine")
	}
	return &Command{
		execute:    execute,
		canExecute: canExecute,
	}
}

// Execute runs the execute routine once with param and returns its error unchanged.
func (c *Command) Execute(param any) error {
	return c.execute(param)
}

// CanExecute returns the predicate's result for param, or true without a predicate.
func (c *Command) CanExecute(param any) bool {
	if c.canExecute == nil {
		return true
	}
	return c.canExecute(param)
}

// HasPredicate reports whether a can-execute routine was supplied.
func (c *Command) HasPredicate() bool {
	return c.canExecute != nil
}

// OnCanExecuteChanged registers fn to be called by RaiseCanExecuteChanged.
// The returned function removes the subscription.
func (c *Command) OnCanExecuteChanged(fn func()) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscribers == nil {
		c.subscribers = make(map[int]func())
	}
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// RaiseCanExecuteChanged notifies subscribers that CanExecute should be queried again.
// Subscribers run in registration order, outside the lock.
func (c *Command) RaiseCanExecuteChanged() {
	c.mu.Lock()
	ids := make([]int, 0, len(c.subscribers))
	for id := range c.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.subscribers[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// release drops all subscribers; called when the command leaves its slot.
func (c *Command) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = nil
}
