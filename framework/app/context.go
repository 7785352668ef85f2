package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/afero"

	"github.com/km-arc/go-spring/framework/config"
	"github.com/km-arc/go-spring/framework/registry"
	"github.com/km-arc/go-spring/framework/scanner"
)

// ModulePath is the import-path root the default scanner resolves against.
const ModulePath = "github.com/km-arc/go-spring"

// ApplicationContext is the top-level facade over the registry.
// It embeds the Registry so user code can call ctx.GetInstance(),
// ctx.Register(), ctx.Close() directly.
type ApplicationContext struct {
	*registry.Registry
	cfg *config.Config
}

// New builds an application context from cfg. The container scans beneath
// cfg.Container.BasePackage, resolving packages under ModulePath to
// directories under the working directory. Extra registry options override
// the defaults.
func New(cfg *config.Config, opts ...registry.Option) *ApplicationContext {
	base := []registry.Option{
		registry.WithBasePackage(cfg.Container.BasePackage),
		registry.WithPreferAnnotations(cfg.Container.PreferAnnotations),
		registry.WithScanner(scanner.New(afero.NewOsFs(), scanner.ModuleResolver{
			Module: ModulePath,
			Root:   ".",
		})),
	}
	return &ApplicationContext{
		Registry: registry.New(append(base, opts...)...),
		cfg:      cfg,
	}
}

// Refresh scans the base package and eagerly materializes every component.
func (a *ApplicationContext) Refresh() error {
	return a.Scan()
}

// Config returns the loaded configuration.
func (a *ApplicationContext) Config() *config.Config { return a.cfg }

// Environment returns the APP_ENV value.
func (a *ApplicationContext) Environment() string { return a.cfg.App.Env }
func (a *ApplicationContext) IsLocal() bool       { return a.Environment() == "local" }
func (a *ApplicationContext) IsProduction() bool  { return a.Environment() == "production" }
func (a *ApplicationContext) IsTesting() bool     { return a.Environment() == "testing" }

// Run serves handler on the configured port. It does not return except on
// server error.
func (a *ApplicationContext) Run(handler http.Handler) {
	addr := ":" + a.cfg.App.Port
	fmt.Printf("🚀  %s running on http://localhost%s  [%s]\n",
		a.cfg.App.Name, addr, a.cfg.App.Env)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
