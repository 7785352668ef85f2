package component

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrNilPrototype is returned when Define is given a nil prototype.
	ErrNilPrototype = errors.New("component: nil prototype provided")
	// ErrNotStructPointer is returned when a prototype is not a pointer to struct.
	ErrNotStructPointer = errors.New("component: prototype must be a pointer to a struct")
	// ErrNotInterface is returned when Implements names a non-interface type.
	ErrNotInterface = errors.New("component: declared capability is not an interface")
	// ErrNotImplemented is returned when a component declares a capability it
	// does not actually satisfy.
	ErrNotImplemented = errors.New("component: declared capability not implemented")
	// ErrBadConstructor is returned when a constructor is not a function of the
	// form func(deps...) *T or func(deps...) (*T, error).
	ErrBadConstructor = errors.New("component: invalid constructor signature")
)

// Marker is the capability a type declares to opt into container management.
//
//	type SystemClock struct{}
//	func (*SystemClock) ComponentMarker() {}
type Marker interface {
	ComponentMarker()
}

// MarkerType is the reflect.Type of Marker, exported so the registry can
// exclude it when binding declared capabilities.
var MarkerType = reflect.TypeOf((*(Marker))(nil)).Elem()

// Definition describes one concrete component type: its pointer-to-struct
// type, the capabilities (interfaces) it declares, and its constructors.
//
// A Definition declaring no constructors has an implicit zero-argument
// constructor (zero-value construction). Declaring any constructor removes
// the implicit one — a type whose only constructors take parameters has no
// zero-argument fallback.
type Definition struct {
	typ      reflect.Type
	provides []reflect.Type
	ctors    []reflect.Value
}

// Option configures a Definition during Define.
type Option func(*Definition) error

// Implements declares that the component satisfies capability I.
//
//	component.Define(&SystemClock{}, component.Implements[Clock]())
func Implements[I any]() Option {
	return func(d *Definition) error {
		it := reflect.TypeOf((*(I))(nil)).Elem()
		if it.Kind() != reflect.Interface {
			return fmt.Errorf("%w: %s", ErrNotInterface, it)
		}
		if !d.typ.Implements(it) {
			return fmt.Errorf("%w: %s does not satisfy %s", ErrNotImplemented, d.typ, it)
		}
		d.provides = append(d.provides, it)
		return nil
	}
}

// Constructor declares a constructor function for the component.
// fn must be a non-variadic func returning the component's pointer type,
// optionally with a trailing error.
//
//	component.Constructor(NewGreetingService)
func Constructor(fn any) Option {
	return func(d *Definition) error {
		v := reflect.ValueOf(fn)
		if !v.IsValid() || v.Kind() != reflect.Func {
			return fmt.Errorf("%w: not a function", ErrBadConstructor)
		}
		t := v.Type()
		if t.IsVariadic() {
			return fmt.Errorf("%w: %s is variadic", ErrBadConstructor, t)
		}
		switch t.NumOut() {
		case 1:
			if t.Out(0) != d.typ {
				return fmt.Errorf("%w: %s does not return %s", ErrBadConstructor, t, d.typ)
			}
		case 2:
			if t.Out(0) != d.typ || t.Out(1) != reflect.TypeOf((*(error))(nil)).Elem() {
				return fmt.Errorf("%w: %s must return (%s, error)", ErrBadConstructor, t, d.typ)
			}
		default:
			return fmt.Errorf("%w: %s", ErrBadConstructor, t)
		}
		d.ctors = append(d.ctors, v)
		return nil
	}
}

func newDefinition(prototype any, opts ...Option) (*Definition, error) {
	t := reflect.TypeOf(prototype)
	if t == nil {
		return nil, ErrNilPrototype
	}
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStructPointer, t)
	}
	d := &Definition{typ: t}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Type returns the component's concrete (pointer-to-struct) type.
func (d *Definition) Type() reflect.Type { return d.typ }

// Provides returns the capabilities the component declares.
func (d *Definition) Provides() []reflect.Type {
	out := make([]reflect.Type, len(d.provides))
	copy(out, d.provides)
	return out
}

// Constructors returns the declared constructors ordered by descending
// parameter count, so the richest constructor is tried first.
func (d *Definition) Constructors() []reflect.Value {
	out := make([]reflect.Value, len(d.ctors))
	copy(out, d.ctors)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Type().NumIn() > out[j].Type().NumIn()
	})
	return out
}

// HasImplicitZero reports whether the component falls back to zero-value
// construction (true only when no constructors were declared).
func (d *Definition) HasImplicitZero() bool { return len(d.ctors) == 0 }

// NewZero builds the zero-value instance (*T pointing at a zeroed T).
func (d *Definition) NewZero() any {
	return reflect.New(d.typ.Elem()).Interface()
}

// Exported reports whether the component's struct type name is exported.
func (d *Definition) Exported() bool {
	r, _ := utf8.DecodeRuneInString(d.typ.Elem().Name())
	return unicode.IsUpper(r)
}

// Marked reports whether the component declares the Marker capability.
func (d *Definition) Marked() bool { return d.typ.Implements(MarkerType) }

// QualifiedName returns the component's package-path-qualified type name,
// e.g. "github.com/km-arc/go-spring/app/services.GreetingService".
func (d *Definition) QualifiedName() string {
	e := d.typ.Elem()
	return e.PkgPath() + "." + e.Name()
}
