package app_test

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/km-arc/go-spring/app/services"
	"github.com/km-arc/go-spring/framework/app"
	"github.com/km-arc/go-spring/framework/config"
	"github.com/km-arc/go-spring/framework/registry"
	"github.com/km-arc/go-spring/framework/scanner"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// demoContext builds an application context over an in-memory mirror of the
// app/ tree, scanning the real demo components from the shared index.
func demoContext(t *testing.T) *app.ApplicationContext {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, f := range []string{
		"/app/services/services.go",
		"/app/services/system_clock.go",
		"/app/services/request_tagger.go",
		"/app/services/greeting_service.go",
	} {
		if err := afero.WriteFile(fs, f, []byte("package services\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{
		App: config.AppConfig{Name: "test", Env: "testing", Port: "0"},
		Container: config.ContainerConfig{
			BasePackage: app.ModulePath + "/app",
		},
	}
	return app.New(cfg, registry.WithScanner(scanner.New(fs, scanner.ModuleResolver{
		Module: app.ModulePath,
		Root:   "/",
	})))
}

// ── ApplicationContext ───────────────────────────────────────────────────────

func TestRefresh_MaterializesDemoComponents(t *testing.T) {
	ctx := demoContext(t)
	defer ctx.Close()

	if err := ctx.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	greeter, err := registry.Resolve[services.Greeter](ctx.Registry)
	if err != nil {
		t.Fatalf("Resolve[Greeter]: %v", err)
	}

	g := greeter.Greet("Ada")
	if g.Message != "Hello, Ada!" {
		t.Errorf("Message: got %q", g.Message)
	}
	if g.ID == "" {
		t.Error("ID should be populated by the injected generator")
	}
	if g.At.IsZero() {
		t.Error("At should be populated by the injected clock")
	}
}

func TestRefresh_SingletonAcrossCapabilities(t *testing.T) {
	ctx := demoContext(t)
	defer ctx.Close()

	if err := ctx.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	byIface, err := registry.Resolve[services.Greeter](ctx.Registry)
	if err != nil {
		t.Fatalf("Resolve[Greeter]: %v", err)
	}
	byConcrete, err := registry.Resolve[*services.GreetingService](ctx.Registry)
	if err != nil {
		t.Fatalf("Resolve[*GreetingService]: %v", err)
	}
	if any(byConcrete) != byIface {
		t.Error("capability and concrete keys should share one instance")
	}
}

func TestRefresh_UnsetBasePackage(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "testing"}}
	ctx := app.New(cfg)
	defer ctx.Close()

	if err := ctx.Refresh(); !errors.Is(err, registry.ErrBasePackageUnset) {
		t.Errorf("got %v, want ErrBasePackageUnset", err)
	}
}

func TestClose_DropsAllBindings(t *testing.T) {
	ctx := demoContext(t)
	if err := ctx.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	ctx.Close()

	if _, err := registry.Resolve[services.Greeter](ctx.Registry); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("after Close: got %v, want ErrNotFound", err)
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	ctx := demoContext(t)
	defer ctx.Close()

	if !ctx.IsTesting() {
		t.Error("IsTesting should be true")
	}
	if ctx.IsProduction() || ctx.IsLocal() {
		t.Error("only the testing environment should be reported")
	}
}
