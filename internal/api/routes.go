package api

import (
	"net/http"

	"github.com/JaimeStill/mediflow/internal/config"
	"github.com/JaimeStill/mediflow/pkg/openapi"
	"github.com/JaimeStill/mediflow/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, cfg *config.Config, domain *Domain, runtime *Runtime) error {
	groups := []routes.Group{
		domain.Triage.Handler(runtime.MaxBodySize).Routes(),
	}

	routes.Register(mux, groups...)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	routes.Describe(spec, "", groups...)

	if cfg.API.OpenAPI.Path != "" {
		specBytes, err := openapi.MarshalJSON(spec)
		if err != nil {
			return err
		}
		mux.HandleFunc("GET "+cfg.API.OpenAPI.Path, openapi.ServeSpec(specBytes))
	}

	for _, g := range groups {
		runtime.Logger.Debug("routes registered", "prefix", g.Prefix, "patterns", g.Patterns())
	}
	return nil
}
