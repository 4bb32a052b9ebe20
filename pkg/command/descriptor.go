package command

import (
	"fmt"
	"reflect"
)

// Descriptor lists the command slots of type T together with their handlers.
// Build it once at composition time; it is read-only afterwards and may be
// shared between instances.
type Descriptor[T any] struct {
	typeName string
	rtype    reflect.Type // set for discovered descriptors
	bindings []binding[T]
	index    map[string]int
}

type binding[T any] struct {
	name       string
	slot       func(T) *Slot
	execute    func(T, any) error
	canExecute func(T, any) bool

	// problem makes the binder skip the slot; set by discovery.
	problem string
	// note is a non-fatal remark about the can-execute routine.
	note string
}

// NewDescriptor returns an empty descriptor for T.
func NewDescriptor[T any]() *Descriptor[T] {
	return &Descriptor[T]{
		typeName: reflect.TypeOf((*T)(nil)).Elem().String(),
		index:    make(map[string]int),
	}
}

// Handle registers the slot name. slot returns the instance's field, execute
// is required for the slot to be bound and canExecute may be nil.
// Handle panics on an empty name, a nil slot accessor or a duplicate name.
func (d *Descriptor[T]) Handle(name string, slot func(T) *Slot, execute func(T, any) error, canExecute func(T, any) bool) *Descriptor[T] {
	if name == "" {
		panic("command: empty slot name")
	}
	if slot == nil {
		panic(fmt.Sprintf("command: nil slot accessor for %s.%s", d.typeName, name))
	}
	d.add(binding[T]{
		name:       name,
		slot:       slot,
		execute:    execute,
		canExecute: canExecute,
	})
	return d
}

// Action adapts a handler without error result to the execute signature.
func Action[T any](fn func(T, any)) func(T, any) error {
	if fn == nil {
		return nil
	}
	return func(instance T, param any) error {
		fn(instance, param)
		return nil
	}
}

func (d *Descriptor[T]) add(b binding[T]) {
	if _, exists := d.index[b.name]; exists {
		panic(fmt.Sprintf("command: duplicate slot %s.%s", d.typeName, b.name))
	}
	d.index[b.name] = len(d.bindings)
	d.bindings = append(d.bindings, b)
}

// TypeName returns the name of the described type.
func (d *Descriptor[T]) TypeName() string {
	return d.typeName
}

// Names returns the registered slot names in registration order.
func (d *Descriptor[T]) Names() []string {
	names := make([]string, len(d.bindings))
	for i, b := range d.bindings {
		names[i] = b.name
	}
	return names
}

// Has reports whether name is registered.
func (d *Descriptor[T]) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Len returns the number of registered slots.
func (d *Descriptor[T]) Len() int {
	return len(d.bindings)
}
