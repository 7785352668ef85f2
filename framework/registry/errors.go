package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrBasePackageUnset is returned by Scan when no base package was
	// configured.
	ErrBasePackageUnset = errors.New("registry: base package must be set before scan")
	// ErrNotFound is returned when no component is bound for a requested key.
	ErrNotFound = errors.New("registry: no component registered")
	// ErrNoConstructor is wrapped by ConstructionError when a component has
	// no satisfiable constructor and no zero-argument fallback.
	ErrNoConstructor = errors.New("registry: no suitable constructor")
)

// CycleError reports a self-referential construction chain. Chain runs from
// the outermost in-progress construction to the implementation that closed
// the loop, which is repeated at the end.
type CycleError struct {
	Chain []reflect.Type
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		names[i] = typeName(t)
	}
	return "registry: circular dependency detected: " + strings.Join(names, " -> ")
}

// ConstructionError reports a failed construction of a specific
// implementation type.
type ConstructionError struct {
	Type reflect.Type
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("registry: constructing %s: %v", typeName(e.Type), e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// typeName renders a type for error messages, dropping the pointer sigil so
// components read as "services.GreetingService".
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		return t.Elem().String()
	}
	return t.String()
}
