package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvGatewayEndpoint   = "MEDIFLOW_GATEWAY_ENDPOINT"
	EnvGatewayAPIKey     = "MEDIFLOW_GATEWAY_API_KEY"
	EnvGatewayDeployment = "MEDIFLOW_GATEWAY_DEPLOYMENT"
	EnvGatewayAPIVersion = "MEDIFLOW_GATEWAY_API_VERSION"
	EnvGatewayAuthType   = "MEDIFLOW_GATEWAY_AUTH_TYPE"
	EnvGatewayTimeout    = "MEDIFLOW_GATEWAY_TIMEOUT"
	EnvGatewayMaxTokens  = "MEDIFLOW_GATEWAY_MAX_TOKENS"

	// Variable names used by existing Azure OpenAI deployments. They apply
	// only when the MEDIFLOW_GATEWAY_* equivalent is unset.
	EnvAzureOpenAIEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAzureOpenAIKey        = "AZURE_OPENAI_KEY"
	EnvAzureOpenAIDeployment = "AZURE_OPENAI_DEPLOYMENT"
)

// Supported gateway authentication modes.
const (
	AuthTypeAPIKey  = "api_key"
	AuthTypeAzureAD = "azure_ad"
)

const DefaultAPIVersion = "2024-02-15-preview"

// GatewayConfig locates and authenticates the Azure OpenAI chat completions
// deployment used for YELLOW/GREEN classification. Endpoint, credential and
// deployment are optional at load time; see Missing.
type GatewayConfig struct {
	Endpoint   string `toml:"endpoint"`
	APIKey     string `toml:"api_key"`
	Deployment string `toml:"deployment"`
	APIVersion string `toml:"api_version"`
	AuthType   string `toml:"auth_type"`
	Timeout    string `toml:"timeout"`
	MaxTokens  int    `toml:"max_tokens"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *GatewayConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Missing lists the required gateway settings that are absent. An API key is
// only required for api_key authentication.
func (c *GatewayConfig) Missing() []string {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if c.AuthType != AuthTypeAzureAD && c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if c.Deployment == "" {
		missing = append(missing, "deployment")
	}
	return missing
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *GatewayConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *GatewayConfig) Merge(overlay *GatewayConfig) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Deployment != "" {
		c.Deployment = overlay.Deployment
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.AuthType != "" {
		c.AuthType = overlay.AuthType
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
}

func (c *GatewayConfig) loadDefaults() {
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.AuthType == "" {
		c.AuthType = AuthTypeAPIKey
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 220
	}
}

func (c *GatewayConfig) loadEnv() {
	setString := func(dst *string, envVars ...string) {
		for _, name := range envVars {
			if v := os.Getenv(name); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.Endpoint, EnvGatewayEndpoint, EnvAzureOpenAIEndpoint)
	setString(&c.APIKey, EnvGatewayAPIKey, EnvAzureOpenAIKey)
	setString(&c.Deployment, EnvGatewayDeployment, EnvAzureOpenAIDeployment)
	setString(&c.APIVersion, EnvGatewayAPIVersion)
	setString(&c.AuthType, EnvGatewayAuthType)
	setString(&c.Timeout, EnvGatewayTimeout)

	if v := os.Getenv(EnvGatewayMaxTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
}

func (c *GatewayConfig) validate() error {
	if c.AuthType != AuthTypeAPIKey && c.AuthType != AuthTypeAzureAD {
		return fmt.Errorf("invalid auth_type: %q", c.AuthType)
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("invalid max_tokens: %d", c.MaxTokens)
	}
	return nil
}
