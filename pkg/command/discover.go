package command

import (
	"fmt"
	"reflect"
	"sync"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
)

// Conventions holds the method name templates used by discovery.
// Each template receives the slot name through fmt.Sprintf.
type Conventions struct {
	Execute    string
	CanExecute string
}

// DefaultConventions maps slot X to XExecute and XCanExecute.
var DefaultConventions = Conventions{
	Execute:    "%sExecute",
	CanExecute: "%sCanExecute",
}

// withDefaults fills each empty template from DefaultConventions
func (c Conventions) withDefaults() Conventions {
	if c.Execute == "" {
		c.Execute = DefaultConventions.Execute
	}
	if c.CanExecute == "" {
		c.CanExecute = DefaultConventions.CanExecute
	}
	return c
}

var (
	slotType  = reflect.TypeOf((*Slot)(nil)).Elem()
	anyType   = reflect.TypeOf((*any)(nil)).Elem()
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	boolType  = reflect.TypeOf((*bool)(nil)).Elem()
)

type cacheKey struct {
	t    reflect.Type
	conv Conventions
}

var descriptorCache sync.Map // cacheKey -> *Descriptor[any]

// Discover builds a descriptor for the pointer-to-struct type t using
// DefaultConventions.
func Discover(t reflect.Type) (*Descriptor[any], error) {
	return DiscoverWith(t, DefaultConventions)
}

// DiscoverWith builds a descriptor for t from its exported Slot fields and
// its exported method set. Empty templates in conv fall back to
// DefaultConventions. Slots without a usable execute method are kept in
// the descriptor with a reason so the binder can report them.
func DiscoverWith(t reflect.Type, conv Conventions) (*Descriptor[any], error) {
	if t == nil {
		return nil, ErrNilType
	}
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, mdwerror.Wrapf(ErrUnsupportedType, "discover %s", t)
	}
	conv = conv.withDefaults()

	key := cacheKey{t: t, conv: conv}
	if cached, ok := descriptorCache.Load(key); ok {
		return cached.(*Descriptor[any]), nil
	}

	d := &Descriptor[any]{
		typeName: t.String(),
		rtype:    t,
		index:    make(map[string]int),
	}

	for _, f := range reflect.VisibleFields(t.Elem()) {
		if !f.IsExported() || f.Type != slotType {
			continue
		}

		b := binding[any]{
			name: f.Name,
			slot: fieldSlot(f.Index),
		}

		execName := fmt.Sprintf(conv.Execute, f.Name)
		m, ok := t.MethodByName(execName)
		switch {
		case !ok:
			b.problem = fmt.Sprintf("no execute method %s", execName)
		case !isExecuteSignature(m.Type):
			b.problem = fmt.Sprintf("execute method %s has signature %s, want func(any) or func(any) error",
				execName, signature(m.Type))
		default:
			b.execute = methodExecute(m)
		}

		if b.problem == "" {
			canName := fmt.Sprintf(conv.CanExecute, f.Name)
			if m, ok := t.MethodByName(canName); ok {
				if isCanExecuteSignature(m.Type) {
					b.canExecute = methodCanExecute(m)
				} else {
					b.note = fmt.Sprintf("ignoring %s with signature %s, want func(any) bool",
						canName, signature(m.Type))
				}
			}
		}

		d.add(b)
	}

	actual, _ := descriptorCache.LoadOrStore(key, d)
	return actual.(*Descriptor[any]), nil
}

// isExecuteSignature checks a method type (receiver first) for func(any) [error].
func isExecuteSignature(mt reflect.Type) bool {
	if mt.IsVariadic() || mt.NumIn() != 2 || mt.In(1) != anyType {
		return false
	}
	switch mt.NumOut() {
	case 0:
		return true
	case 1:
		return mt.Out(0) == errorType
	default:
		return false
	}
}

// isCanExecuteSignature checks a method type (receiver first) for func(any) bool.
func isCanExecuteSignature(mt reflect.Type) bool {
	return !mt.IsVariadic() &&
		mt.NumIn() == 2 && mt.In(1) == anyType &&
		mt.NumOut() == 1 && mt.Out(0) == boolType
}

// signature renders a method type without its receiver.
func signature(mt reflect.Type) string {
	in := make([]reflect.Type, 0, mt.NumIn())
	for i := 1; i < mt.NumIn(); i++ {
		in = append(in, mt.In(i))
	}
	out := make([]reflect.Type, 0, mt.NumOut())
	for i := 0; i < mt.NumOut(); i++ {
		out = append(out, mt.Out(i))
	}
	return reflect.FuncOf(in, out, mt.IsVariadic()).String()
}

func paramValue(param any) reflect.Value {
	return reflect.ValueOf(&param).Elem()
}

func methodExecute(m reflect.Method) func(any, any) error {
	returnsErr := m.Type.NumOut() == 1
	return func(target any, param any) error {
		out := reflect.ValueOf(target).Method(m.Index).Call([]reflect.Value{paramValue(param)})
		if !returnsErr {
			return nil
		}
		err, _ := out[0].Interface().(error)
		return err
	}
}

func methodCanExecute(m reflect.Method) func(any, any) bool {
	return func(target any, param any) bool {
		out := reflect.ValueOf(target).Method(m.Index).Call([]reflect.Value{paramValue(param)})
		return out[0].Bool()
	}
}

// fieldSlot returns an accessor for the Slot at index. It yields nil when the
// field is reached through a nil embedded pointer or is not addressable.
func fieldSlot(index []int) func(any) *Slot {
	return func(target any) *Slot {
		v := reflect.ValueOf(target)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return nil
		}
		f, err := v.Elem().FieldByIndexErr(index)
		if err != nil || !f.CanAddr() {
			return nil
		}
		p := f.Addr()
		if !p.CanInterface() {
			return nil
		}
		s, _ := p.Interface().(*Slot)
		return s
	}
}

// locate finds the value inside instance that matches the descriptor type t:
// instance itself, or an exported struct embedded in it (by value or pointer).
func locate(t reflect.Type, instance any) (any, error) {
	v := reflect.ValueOf(instance)
	if v.Type() == t {
		return instance, nil
	}

	if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(v.Elem().Type()) {
			if !f.Anonymous {
				continue
			}
			fv, err := v.Elem().FieldByIndexErr(f.Index)
			if err != nil {
				continue
			}
			switch {
			case f.Type == t.Elem() && fv.CanAddr() && fv.Addr().CanInterface():
				return fv.Addr().Interface(), nil
			case f.Type == t && !fv.IsNil() && fv.CanInterface():
				return fv.Interface(), nil
			}
		}
	}

	return nil, mdwerror.Wrapf(ErrTypeMismatch, "bind %s as %s", v.Type(), t)
}

// isNil reports whether v is nil or a typed nil of a nillable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
