// Package registry implements the container core: a catalog binding requested
// types (concrete or capability) to implementation types, a singleton cache,
// and the recursive constructor-injection algorithm with cycle detection.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/km-arc/go-spring/framework/component"
	"github.com/km-arc/go-spring/framework/scanner"
)

// CandidateFunc decides whether a defined type is eligible for container
// management.
type CandidateFunc func(*component.Definition) bool

// Registry owns the component catalog and singleton cache.
//
// Both maps are first-writer-wins: concurrent callers may race a
// construction, but only one instance per implementation type is ever
// published. The in-progress construction chain is carried per call, so
// cycle detection is scoped to one resolution chain; a circular wait split
// across goroutines is not detected.
type Registry struct {
	basePackage       string
	preferAnnotations bool

	index     *component.Index
	scanner   *scanner.Scanner
	candidate CandidateFunc

	components sync.Map // reflect.Type (key) -> reflect.Type (impl)
	singletons sync.Map // reflect.Type (key) -> any
}

// Option configures a Registry during New.
type Option func(*Registry)

// WithBasePackage sets the package root Scan discovers beneath. Required for
// Scan; GetInstance works without it.
func WithBasePackage(pkg string) Option {
	return func(r *Registry) { r.basePackage = pkg }
}

// WithPreferAnnotations selects the annotation-flavored candidate policy.
// Both policies currently test for the marker capability; annotation-style
// metadata is not modeled yet, so the flag is a seam, not a behavior change.
func WithPreferAnnotations(v bool) Option {
	return func(r *Registry) { r.preferAnnotations = v }
}

// WithIndex swaps the component type table (default: the shared index).
func WithIndex(ix *component.Index) Option {
	return func(r *Registry) { r.index = ix }
}

// WithScanner swaps the discovery collaborator.
func WithScanner(s *scanner.Scanner) Option {
	return func(r *Registry) { r.scanner = s }
}

// WithCandidatePolicy overrides the candidate predicate entirely.
func WithCandidatePolicy(f CandidateFunc) Option {
	return func(r *Registry) { r.candidate = f }
}

// New builds an empty registry. Without WithScanner, Scan walks the working
// directory as the base package's root.
func New(opts ...Option) *Registry {
	r := &Registry{index: component.Shared()}
	for _, opt := range opts {
		opt(r)
	}
	if r.candidate == nil {
		r.candidate = candidatePolicy(r.preferAnnotations)
	}
	if r.scanner == nil {
		r.scanner = scanner.New(afero.NewOsFs(), scanner.ModuleResolver{
			Module: r.basePackage,
			Root:   ".",
		})
	}
	return r
}

// candidatePolicy picks the candidate predicate for the configured mode.
// Annotation metadata is not modeled yet, so both branches resolve to the
// marker-capability check.
func candidatePolicy(preferAnnotations bool) CandidateFunc {
	markerBased := !preferAnnotations
	if markerBased {
		return markedCandidate
	}
	return markedCandidate
}

// markedCandidate is the default predicate: exported concrete type declaring
// the marker capability. Concreteness is guaranteed by Definition validation.
func markedCandidate(d *component.Definition) bool {
	return d.Exported() && d.Marked()
}

// ── Registration ─────────────────────────────────────────────────────────────

// Register binds a component into the catalog: the concrete type under its
// own key, and under every declared capability except the marker. Existing
// bindings are never overwritten; duplicate registration is a no-op.
func (r *Registry) Register(def *component.Definition) {
	impl := def.Type()
	r.components.LoadOrStore(impl, impl)
	for _, capability := range def.Provides() {
		if capability == component.MarkerType {
			continue
		}
		r.components.LoadOrStore(capability, impl)
	}
}

// Bindings returns a snapshot of the catalog's keys (order unspecified).
func (r *Registry) Bindings() []reflect.Type {
	var keys []reflect.Type
	r.components.Range(func(k, _ any) bool {
		keys = append(keys, k.(reflect.Type))
		return true
	})
	return keys
}

// ── Scan ─────────────────────────────────────────────────────────────────────

// Scan discovers candidate names under the base package, registers every
// qualifying component, and eagerly materializes the whole catalog so
// unsatisfiable graphs fail at startup rather than at first use.
//
// Discovered names with no definition in the index are skipped: a name the
// table cannot load is not a component.
func (r *Registry) Scan() error {
	if strings.TrimSpace(r.basePackage) == "" {
		return ErrBasePackageUnset
	}

	names, err := r.scanner.Discover(r.basePackage)
	if err != nil {
		return err
	}

	for _, name := range names {
		def, ok := r.index.Lookup(name)
		if !ok {
			continue
		}
		if r.candidate(def) {
			r.Register(def)
		}
	}

	for _, key := range r.Bindings() {
		if _, err := r.GetInstance(key); err != nil {
			return err
		}
	}
	return nil
}

// ── Resolution ───────────────────────────────────────────────────────────────

// GetInstance returns the singleton bound to key, constructing it (and its
// dependency graph) on first request.
func (r *Registry) GetInstance(key reflect.Type) (any, error) {
	return r.get(key, &resolution{})
}

// Resolve is the typed convenience wrapper around GetInstance.
//
//	greeter, err := registry.Resolve[services.Greeter](r)
func Resolve[T any](r *Registry) (T, error) {
	var zero T
	v, err := r.GetInstance(reflect.TypeOf((*(T))(nil)).Elem())
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("registry: %s resolved to incompatible %T", typeName(reflect.TypeOf((*(T))(nil)).Elem()), v)
	}
	return typed, nil
}

func (r *Registry) get(key reflect.Type, ctx *resolution) (any, error) {
	if v, ok := r.singletons.Load(key); ok {
		return v, nil
	}

	impl, ok := r.resolveImplementation(key)
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNotFound, typeName(key))
	}

	created, err := r.construct(impl, ctx)
	if err != nil {
		return nil, err
	}

	// First writer wins on both keys; a racing chain's instance is kept and
	// ours discarded, preserving at-most-one construction per published key.
	instance, _ := r.singletons.LoadOrStore(impl, created)
	if key != impl {
		instance, _ = r.singletons.LoadOrStore(key, instance)
	}
	return instance, nil
}

// resolveImplementation maps a requested key to a concrete implementation:
// direct catalog hit, then a defensive scan over entries, then the requested
// type itself when it independently qualifies as a component.
func (r *Registry) resolveImplementation(requested reflect.Type) (reflect.Type, bool) {
	if v, ok := r.components.Load(requested); ok {
		return v.(reflect.Type), true
	}
	var found reflect.Type
	r.components.Range(func(k, v any) bool {
		if k.(reflect.Type) == requested || v.(reflect.Type) == requested {
			found = v.(reflect.Type)
			return false
		}
		return true
	})
	if found != nil {
		return found, true
	}
	if def, ok := r.index.LookupType(requested); ok && r.candidate(def) {
		return requested, true
	}
	return nil, false
}

// construct builds an instance of impl, resolving constructor arguments
// recursively. Constructors are tried richest-first; a constructor whose
// arguments cannot all be resolved is abandoned for the next, except that a
// detected cycle aborts the whole chain immediately.
func (r *Registry) construct(impl reflect.Type, ctx *resolution) (any, error) {
	if ctx.contains(impl) {
		return nil, &CycleError{Chain: ctx.chainWith(impl)}
	}
	ctx.push(impl)
	defer ctx.pop()

	def, ok := r.index.LookupType(impl)
	if !ok {
		return nil, &ConstructionError{Type: impl, Err: ErrNoConstructor}
	}

	for _, ctor := range def.Constructors() {
		ft := ctor.Type()
		args := make([]reflect.Value, ft.NumIn())
		satisfiable := true
		for i := 0; i < ft.NumIn(); i++ {
			dep, err := r.get(ft.In(i), ctx)
			if err != nil {
				var cycle *CycleError
				if errors.As(err, &cycle) {
					return nil, err
				}
				satisfiable = false
				break
			}
			args[i] = reflect.ValueOf(dep)
		}
		if !satisfiable {
			continue
		}
		out := ctor.Call(args)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, &ConstructionError{Type: impl, Err: out[1].Interface().(error)}
		}
		return out[0].Interface(), nil
	}

	if def.HasImplicitZero() {
		return def.NewZero(), nil
	}
	return nil, &ConstructionError{Type: impl, Err: ErrNoConstructor}
}

// ── Teardown ─────────────────────────────────────────────────────────────────

// Close clears the catalog and singleton cache. Idempotent; a closed registry
// answers every request with ErrNotFound until re-scanned.
func (r *Registry) Close() {
	r.components.Range(func(k, _ any) bool {
		r.components.Delete(k)
		return true
	})
	r.singletons.Range(func(k, _ any) bool {
		r.singletons.Delete(k)
		return true
	})
}

// ── Resolution context ───────────────────────────────────────────────────────

// resolution carries the in-progress construction chain for one public
// GetInstance call. Outermost construction first.
type resolution struct {
	stack []reflect.Type
}

func (c *resolution) contains(t reflect.Type) bool {
	for _, s := range c.stack {
		if s == t {
			return true
		}
	}
	return false
}

func (c *resolution) push(t reflect.Type) { c.stack = append(c.stack, t) }

func (c *resolution) pop() { c.stack = c.stack[:len(c.stack)-1] }

// chainWith copies the current chain and appends the type that closed the
// loop.
func (c *resolution) chainWith(t reflect.Type) []reflect.Type {
	chain := make([]reflect.Type, len(c.stack), len(c.stack)+1)
	copy(chain, c.stack)
	return append(chain, t)
}
