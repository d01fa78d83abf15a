package openapi

import (
	"fmt"
	"os"
	"strings"
)

const (
	defaultTitle = "MediFlow Triage API"
	defaultPath  = "/openapi.json"
)

// Config controls the generated OpenAPI document and where it is served,
// relative to the API base path.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Path        string `toml:"path"`
}

// ConfigEnv names the environment variables that override Config fields.
type ConfigEnv struct {
	Title       string
	Description string
	Path        string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = "Administrative urgency classification (RED, YELLOW, GREEN) for intake prioritization. Not a medical diagnosis."
	}
	if c.Path == "" {
		c.Path = defaultPath
	}

	if env != nil {
		for dst, name := range map[*string]string{
			&c.Title:       env.Title,
			&c.Description: env.Description,
			&c.Path:        env.Path,
		} {
			if v := os.Getenv(name); name != "" && v != "" {
				*dst = v
			}
		}
	}

	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /: %q", c.Path)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}
