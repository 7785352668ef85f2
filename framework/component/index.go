package component

import (
	"errors"
	"reflect"
	"strings"
	"sync"
)

// ErrConflictingDefinition indicates an attempt to define a different type
// under an already-taken qualified name.
var ErrConflictingDefinition = errors.New("component: conflicting definition")

// Index is the type table the container resolves discovered names against.
// Go has no runtime class loading, so components describe themselves here
// (typically from an init func) and the scanner's qualified names are matched
// against these entries.
//
// The first definition for a name wins; redefining the same type under the
// same name is idempotent.
type Index struct {
	mu     sync.Mutex
	byName sync.Map // string -> *Definition (normalized qualified name)
	byType sync.Map // reflect.Type -> *Definition
}

// NewIndex creates an empty Index. Most callers use the shared package-level
// index via Define; tests build their own.
func NewIndex() *Index { return &Index{} }

// Define validates and records a component definition.
//
//	component.Define(&GreetingService{},
//	    component.Implements[Greeter](),
//	    component.Constructor(NewGreetingService),
//	)
func (ix *Index) Define(prototype any, opts ...Option) error {
	d, err := newDefinition(prototype, opts...)
	if err != nil {
		return err
	}
	key := Normalize(d.QualifiedName())

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := ix.byName.Load(key); ok {
		if old.(*Definition).typ == d.typ {
			return nil
		}
		return ErrConflictingDefinition
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := ix.byName.Load(key); ok {
		if old.(*Definition).typ == d.typ {
			return nil
		}
		return ErrConflictingDefinition
	}

	ix.byName.Store(key, d)
	ix.byType.Store(d.typ, d)
	return nil
}

// Lookup returns the definition for a fully-qualified type name, matching the
// normalized form so scanner-produced file stems line up with type names.
func (ix *Index) Lookup(qualifiedName string) (*Definition, bool) {
	v, ok := ix.byName.Load(Normalize(qualifiedName))
	if !ok {
		return nil, false
	}
	return v.(*Definition), true
}

// LookupType returns the definition for a concrete component type.
func (ix *Index) LookupType(t reflect.Type) (*Definition, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := ix.byType.Load(t)
	if !ok {
		return nil, false
	}
	return v.(*Definition), true
}

// Entries returns a snapshot of all definitions (order is unspecified).
func (ix *Index) Entries() []*Definition {
	var out []*Definition
	ix.byName.Range(func(_, v any) bool {
		out = append(out, v.(*Definition))
		return true
	})
	return out
}

// Normalize canonicalizes a qualified type name for index matching: the whole
// name is lowercased and underscores/hyphens are stripped from the segment
// after the last path separator, so a file stem like
// "app/services.greeting_service" matches the type name
// "app/services.GreetingService".
func Normalize(qualifiedName string) string {
	q := strings.ToLower(qualifiedName)
	slash := strings.LastIndexByte(q, '/')
	head, tail := "", q
	if slash >= 0 {
		head, tail = q[:slash+1], q[slash+1:]
	}
	tail = strings.NewReplacer("_", "", "-", "").Replace(tail)
	return head + tail
}

// shared is the process-wide index Define writes to.
var shared = NewIndex()

// Define records a component in the shared index.
func Define(prototype any, opts ...Option) error {
	return shared.Define(prototype, opts...)
}

// MustDefine is Define but panics on error; intended for init funcs where a
// bad definition is a programming error.
func MustDefine(prototype any, opts ...Option) {
	if err := Define(prototype, opts...); err != nil {
		panic(err)
	}
}

// Shared returns the process-wide index.
func Shared() *Index { return shared }
