package main

import (
	"log"
	nethttp "net/http"

	"github.com/km-arc/go-spring/app/services"
	"github.com/km-arc/go-spring/framework/app"
	"github.com/km-arc/go-spring/framework/config"
	gohttp "github.com/km-arc/go-spring/framework/http"
	"github.com/km-arc/go-spring/framework/registry"
	"github.com/km-arc/go-spring/framework/routing"
)

func main() {
	cfg := config.Load() // loads .env automatically
	if cfg.Container.BasePackage == "" {
		cfg.Container.BasePackage = app.ModulePath + "/app"
	}

	ctx := app.New(cfg)
	defer ctx.Close()

	// Discover, register, and eagerly construct every component.
	if err := ctx.Refresh(); err != nil {
		log.Fatalf("container scan failed: %v", err)
	}

	greeter, err := registry.Resolve[services.Greeter](ctx.Registry)
	if err != nil {
		log.Fatalf("resolving greeter: %v", err)
	}

	r := routing.New()

	r.Get("/greet", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		res := gohttp.NewResponse(w)
		res.Success(greeter.Greet(req.URL.Query().Get("name")))
	})

	r.Get("/greet/{name}", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		res := gohttp.NewResponse(w)
		res.Success(greeter.Greet(routing.Param(req, "name")))
	})

	ctx.Run(r)
}
