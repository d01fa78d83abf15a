// Package api assembles the API module with the triage system and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/mediflow/internal/config"
	"github.com/JaimeStill/mediflow/internal/infrastructure"
	"github.com/JaimeStill/mediflow/internal/triage"
	"github.com/JaimeStill/mediflow/pkg/middleware"
	"github.com/JaimeStill/mediflow/pkg/module"
)

// NewModule creates the API module with the triage handler and middleware.
// When authentication is enabled the issuer is contacted during construction.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, cfg, domain, runtime); err != nil {
		return nil, fmt.Errorf("route registration failed: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS, triage.HeaderClassificationID))
	m.Use(middleware.Logger(runtime.Logger))

	if cfg.API.Auth.Enabled {
		verifier, err := middleware.NewOIDCVerifier(infra.Lifecycle.Context(), &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
		m.Use(middleware.Auth(verifier, runtime.Logger))
	}

	return m, nil
}
