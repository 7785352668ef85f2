// Package registry provides a Spring-flavored IoC (Inversion of Control)
// container core for Go.
//
// # Overview
//
// The registry manages the discovery, registration, and lifecycle of an
// application's components. Given a base package, it scans the package's
// directory tree for candidate type names, matches them against the
// component index, registers every qualifying type under its concrete type
// and each capability (interface) it declares, and eagerly constructs the
// whole singleton graph, injecting constructor dependencies recursively.
//
// Because Go has no runtime class loading, discovery is matched against an
// explicit type table: components describe themselves to the index
// (typically from an init func), and the scanner's qualified names select
// which of those definitions the registry manages.
//
// # Lifecycle
//
//  1. Define components:
//
//     component.MustDefine(&GreetingService{},
//         component.Implements[Greeter](),
//         component.Constructor(NewGreetingService),
//     )
//
//  2. Build: r := registry.New(registry.WithBasePackage("example.com/demo/app"))
//  3. Scan:  r.Scan()        — discover, register, eagerly materialize
//  4. Use:   greeter, err := registry.Resolve[Greeter](r)
//  5. Close: r.Close()       — drop the catalog and every singleton
//
// # Resolution
//
// A requested key resolves to an implementation by direct catalog hit, then
// a defensive scan over catalog entries, then — when the key's own
// definition qualifies as a component — the key itself. Construction tries
// the richest constructor first and falls back constructor by constructor
// when an argument cannot be resolved; a zero-argument component with no
// declared constructors is built from its zero value. Detected dependency
// cycles abort the whole resolution chain with the full chain rendered in
// the error.
//
// # Concurrency
//
// One registry may be shared by any number of goroutines. Catalog and cache
// reads are lock-free; writes are atomic insert-if-absent, so the first
// published instance per key wins and is never overwritten. Cycle detection
// is scoped to a single resolution chain: a circular wait spread across
// goroutines is not detected.
package registry
