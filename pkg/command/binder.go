package command

import (
	"reflect"
	"strings"
	"sync"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
	"github.com/msto63/alarmview/foundation/core/log"
)

// RebindPolicy decides what happens when a slot already holds a command.
type RebindPolicy int

const (
	// RebindReject fails the whole bind with ErrAlreadyBound; nothing is installed.
	RebindReject RebindPolicy = iota
	// RebindSkip leaves the occupied slot alone and reports it.
	RebindSkip
	// RebindReplace installs a new command over the old one.
	RebindReplace
)

// String returns the policy name
func (p RebindPolicy) String() string {
	switch p {
	case RebindReject:
		return "reject"
	case RebindSkip:
		return "skip"
	case RebindReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Options configures a Binder
type Options struct {
	Logger      *log.Logger
	Rebind      RebindPolicy
	Conventions Conventions
}

// Binder installs commands into slots and clears them again.
// A Binder holds no per-instance state; calls for the same instance must be serialized.
type Binder struct {
	logger      *log.Logger
	rebind      RebindPolicy
	conventions Conventions
}

// NewBinder creates a binder. Zero options select the default logger,
// RebindReject and DefaultConventions; each empty convention template is
// defaulted on its own.
func NewBinder(opts Options) *Binder {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	opts.Conventions = opts.Conventions.withDefaults()

	return &Binder{
		logger:      opts.Logger.WithField("component", "command-binder"),
		rebind:      opts.Rebind,
		conventions: opts.Conventions,
	}
}

// Diagnostic explains why a slot was not bound
type Diagnostic struct {
	Slot   string
	Reason string
}

// String returns "slot: reason"
func (d Diagnostic) String() string {
	return d.Slot + ": " + d.Reason
}

// Report is the outcome of one bind call
type Report struct {
	Type    string
	Bound   []string
	Skipped []Diagnostic
}

// IsBound reports whether the named slot was bound by this call
func (r *Report) IsBound(name string) bool {
	for _, n := range r.Bound {
		if n == name {
			return true
		}
	}
	return false
}

// OK reports whether every slot was bound
func (r *Report) OK() bool {
	return len(r.Skipped) == 0
}

// String summarizes the report
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString(r.Type)
	b.WriteString(": bound [")
	b.WriteString(strings.Join(r.Bound, ", "))
	b.WriteString("]")
	if len(r.Skipped) > 0 {
		b.WriteString(", skipped [")
		for i, d := range r.Skipped {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(d.String())
		}
		b.WriteString("]")
	}
	return b.String()
}

// Bind discovers the slots of instance's dynamic type by naming convention
// and installs a command into each slot that has a usable execute method.
func (b *Binder) Bind(instance any) (*Report, error) {
	if isNil(instance) {
		return nil, ErrNilInstance
	}
	return b.BindType(reflect.TypeOf(instance), instance)
}

// BindType binds instance using the slots and methods of t. t is either the
// type of instance or the pointer type of a struct embedded in instance.
func (b *Binder) BindType(t reflect.Type, instance any) (*Report, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if isNil(instance) {
		return nil, ErrNilInstance
	}

	d, err := DiscoverWith(t, b.conventions)
	if err != nil {
		return nil, err
	}
	target, err := locate(t, instance)
	if err != nil {
		return nil, err
	}
	return BindDescriptor(b, d, target)
}

// BindDescriptor installs commands for every slot registered in d.
// A nil binder uses Default().
func BindDescriptor[T any](b *Binder, d *Descriptor[T], instance T) (*Report, error) {
	if b == nil {
		b = Default()
	}
	if d == nil {
		return nil, ErrNilDescriptor
	}
	if isNil(any(instance)) {
		return nil, ErrNilInstance
	}

	report := &Report{Type: d.typeName}

	type install struct {
		binding binding[T]
		slot    *Slot
	}
	plan := make([]install, 0, len(d.bindings))

	for _, bd := range d.bindings {
		if bd.problem != "" {
			report.skip(bd.name, bd.problem)
			continue
		}
		if bd.execute == nil {
			report.skip(bd.name, "no execute handler registered")
			continue
		}

		slot := bd.slot(instance)
		if slot == nil {
			report.skip(bd.name, "slot is not addressable")
			continue
		}

		if slot.Bound() {
			switch b.rebind {
			case RebindReject:
				return nil, mdwerror.Wrapf(ErrAlreadyBound, "%s.%s", d.typeName, bd.name)
			case RebindSkip:
				report.skip(bd.name, "slot already bound")
				continue
			}
		}

		plan = append(plan, install{binding: bd, slot: slot})
	}

	for _, p := range plan {
		p.slot.clear()
		p.slot.set(newBound(p.binding, instance))
		report.Bound = append(report.Bound, p.binding.name)

		if p.binding.note != "" {
			b.logger.Debug("can-execute handler ignored", log.Fields{
				"type": d.typeName,
				"slot": p.binding.name,
				"note": p.binding.note,
			})
		}
	}

	for _, diag := range report.Skipped {
		b.logger.Warn("command slot skipped", log.Fields{
			"type":   d.typeName,
			"slot":   diag.Slot,
			"reason": diag.Reason,
		})
	}
	b.logger.Debug("commands bound", log.Fields{
		"type":    d.typeName,
		"bound":   len(report.Bound),
		"skipped": len(report.Skipped),
	})

	return report, nil
}

func (r *Report) skip(slot, reason string) {
	r.Skipped = append(r.Skipped, Diagnostic{Slot: slot, Reason: reason})
}

// newBound fixes the handler pair to instance.
func newBound[T any](bd binding[T], instance T) *Command {
	execute := bd.execute
	var canExecute CanExecuteFunc
	if bd.canExecute != nil {
		can := bd.canExecute
		canExecute = func(param any) bool {
			return can(instance, param)
		}
	}
	return New(func(param any) error {
		return execute(instance, param)
	}, canExecute)
}

// Unbind clears every exported Slot field of instance that holds a command.
// Empty slots are left alone; calling Unbind twice is harmless.
func (b *Binder) Unbind(instance any) error {
	if isNil(instance) {
		return ErrNilInstance
	}

	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return mdwerror.Wrapf(ErrUnsupportedType, "unbind %s", v.Type())
	}

	cleared := 0
	for _, f := range reflect.VisibleFields(v.Elem().Type()) {
		if !f.IsExported() || f.Type != slotType {
			continue
		}
		if s := fieldSlot(f.Index)(instance); s != nil && s.clear() {
			cleared++
		}
	}

	b.logger.Debug("commands unbound", log.Fields{
		"type":    v.Type().String(),
		"cleared": cleared,
	})
	return nil
}

// UnbindDescriptor clears the slots registered in d. A nil binder uses Default().
func UnbindDescriptor[T any](b *Binder, d *Descriptor[T], instance T) error {
	if b == nil {
		b = Default()
	}
	if d == nil {
		return ErrNilDescriptor
	}
	if isNil(any(instance)) {
		return ErrNilInstance
	}

	cleared := 0
	for _, bd := range d.bindings {
		if s := bd.slot(instance); s != nil && s.clear() {
			cleared++
		}
	}

	b.logger.Debug("commands unbound", log.Fields{
		"type":    d.typeName,
		"cleared": cleared,
	})
	return nil
}

var (
	defaultBinder     *Binder
	defaultBinderOnce sync.Once
)

// Default returns the package binder, created on first use with zero Options.
func Default() *Binder {
	defaultBinderOnce.Do(func() {
		defaultBinder = NewBinder(Options{})
	})
	return defaultBinder
}

// Bind binds instance with the default binder.
func Bind(instance any) (*Report, error) {
	return Default().Bind(instance)
}

// BindType binds instance against t with the default binder.
func BindType(t reflect.Type, instance any) (*Report, error) {
	return Default().BindType(t, instance)
}

// Unbind clears instance's slots with the default binder.
func Unbind(instance any) error {
	return Default().Unbind(instance)
}
