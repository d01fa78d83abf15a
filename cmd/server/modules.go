package main

import (
	"net/http"

	"github.com/JaimeStill/mediflow/internal/api"
	"github.com/JaimeStill/mediflow/internal/config"
	"github.com/JaimeStill/mediflow/internal/infrastructure"
	"github.com/JaimeStill/mediflow/pkg/handlers"
	"github.com/JaimeStill/mediflow/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}

		body := map[string]string{"status": "ready"}
		for name, err := range infra.Lifecycle.Probe() {
			body[name] = "ok"
			if err != nil {
				body[name] = err.Error()
			}
		}
		handlers.RespondJSON(w, http.StatusOK, body)
	})

	return router
}
