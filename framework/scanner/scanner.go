// Package scanner enumerates candidate component names beneath a base
// package by walking the package's backing directory: every subdirectory is
// a nested package, every .go leaf file contributes one qualified candidate
// name (package path + file stem).
package scanner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrUnresolvedPackage is returned when the resolver cannot map a package
	// to a storage location.
	ErrUnresolvedPackage = errors.New("scanner: package not resolvable to a directory")
	// ErrNotDirectory is returned when the resolved location is not a
	// locally-walkable directory (archived and remote sources are unsupported).
	ErrNotDirectory = errors.New("scanner: resolved location is not a directory")
)

// DiscoveryError reports a failed discovery attempt for a package.
type DiscoveryError struct {
	Package string
	Err     error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("scanner: discovering %q: %v", e.Package, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// PackageResolver maps an import path to the directory backing it.
// It is the classpath-lookup collaborator; implementations decide how import
// paths relate to storage.
type PackageResolver interface {
	Dir(pkg string) (string, error)
}

// ModuleResolver resolves import paths under a single module to directories
// under its root — the usual case for an application scanning its own
// packages.
type ModuleResolver struct {
	// Module is the module path, e.g. "github.com/km-arc/go-spring".
	Module string
	// Root is the directory holding the module, e.g. ".".
	Root string
}

func (r ModuleResolver) Dir(pkg string) (string, error) {
	if pkg == r.Module {
		return r.Root, nil
	}
	if rest, ok := strings.CutPrefix(pkg, r.Module+"/"); ok {
		return filepath.Join(r.Root, filepath.FromSlash(rest)), nil
	}
	return "", fmt.Errorf("%w: %q is outside module %q", ErrUnresolvedPackage, pkg, r.Module)
}

// StaticResolver resolves from a fixed map; used by tests and embedding
// binaries with pre-computed package locations.
type StaticResolver map[string]string

func (r StaticResolver) Dir(pkg string) (string, error) {
	if dir, ok := r[pkg]; ok {
		return dir, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnresolvedPackage, pkg)
}

// Scanner walks package directories through an afero filesystem.
type Scanner struct {
	fs       afero.Fs
	resolver PackageResolver
}

// New creates a Scanner reading through fs. Pass afero.NewOsFs() for real
// source trees, afero.NewMemMapFs() in tests.
func New(fs afero.Fs, resolver PackageResolver) *Scanner {
	return &Scanner{fs: fs, resolver: resolver}
}

// Discover returns the qualified type-name candidates beneath basePackage.
// Each name is "importpath.stem"; no ordering is guaranteed. Discovery is
// side-effect free: on error nothing partial is returned.
func (s *Scanner) Discover(basePackage string) ([]string, error) {
	dir, err := s.resolver.Dir(basePackage)
	if err != nil {
		return nil, &DiscoveryError{Package: basePackage, Err: err}
	}
	info, err := s.fs.Stat(dir)
	if err != nil {
		return nil, &DiscoveryError{Package: basePackage, Err: fmt.Errorf("%w: %v", ErrUnresolvedPackage, err)}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Package: basePackage, Err: fmt.Errorf("%w: %s", ErrNotDirectory, dir)}
	}

	var names []string
	if err := s.collect(dir, basePackage, &names); err != nil {
		return nil, &DiscoveryError{Package: basePackage, Err: err}
	}
	return names, nil
}

func (s *Scanner) collect(dir, pkg string, out *[]string) error {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				continue
			}
			if err := s.collect(filepath.Join(dir, name), pkg+"/"+name, out); err != nil {
				return err
			}
			continue
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		stem := strings.TrimSuffix(name, ".go")
		*out = append(*out, pkg+"."+stem)
	}
	return nil
}
