package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/mediflow/pkg/formatting"
	"github.com/JaimeStill/mediflow/pkg/middleware"
	"github.com/JaimeStill/mediflow/pkg/openapi"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MEDIFLOW_CORS_ENABLED",
	Origins:          "MEDIFLOW_CORS_ORIGINS",
	AllowedMethods:   "MEDIFLOW_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MEDIFLOW_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MEDIFLOW_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MEDIFLOW_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "MEDIFLOW_OPENAPI_TITLE",
	Description: "MEDIFLOW_OPENAPI_DESCRIPTION",
	Path:        "MEDIFLOW_OPENAPI_PATH",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "MEDIFLOW_AUTH_ENABLED",
	Issuer:   "MEDIFLOW_AUTH_ISSUER",
	ClientID: "MEDIFLOW_AUTH_CLIENT_ID",
}

const defaultMaxBodySize = 64 * 1024

// APIConfig holds API routing, request limits, CORS, authentication, and
// OpenAPI document settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Auth        middleware.AuthConfig `toml:"auth"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes, falling back to 64KB
// when the value cannot be parsed.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil || size <= 0 {
		return defaultMaxBodySize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and auth configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "64KB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("MEDIFLOW_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("MEDIFLOW_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}
