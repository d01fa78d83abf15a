// Package gateway sends symptom descriptions to an Azure OpenAI chat
// completions deployment and returns the model's raw reply text.
// Each call is a single bounded request: no retries, deterministic sampling,
// and a small output-token ceiling.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/JaimeStill/mediflow/internal/config"
	"github.com/JaimeStill/mediflow/pkg/lifecycle"
)

const (
	moduleName    = "mediflow/gateway"
	moduleVersion = "v0.1.0"

	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 220

	// CognitiveServicesScope is the token scope for Azure AD authentication.
	CognitiveServicesScope = "https://cognitiveservices.azure.com/.default"
)

// Options customizes gateway construction. Zero values select the defaults.
type Options struct {
	// Transport replaces the default HTTP client.
	Transport policy.Transporter
	// Credential replaces DefaultAzureCredential for azure_ad authentication.
	Credential azcore.TokenCredential
}

// Gateway is a read-only client for one chat completions deployment.
// It is safe for concurrent use.
type Gateway struct {
	pipeline  runtime.Pipeline
	url       string
	timeout   time.Duration
	maxTokens int
	notReady  error
	logger    *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// New creates a Gateway from cfg. Missing endpoint, credential, or
// deployment settings do not fail construction; every Classify call then
// returns ErrNotConfigured without touching the network.
func New(cfg *config.GatewayConfig, logger *slog.Logger, opts *Options) *Gateway {
	if opts == nil {
		opts = &Options{}
	}

	g := &Gateway{
		timeout:   cfg.TimeoutDuration(),
		maxTokens: cfg.MaxTokens,
		logger:    logger.With("system", "gateway"),
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}
	if g.maxTokens <= 0 {
		g.maxTokens = defaultMaxTokens
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		g.notReady = fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
		return g
	}

	auth, err := authPolicy(cfg, opts.Credential)
	if err != nil {
		g.notReady = fmt.Errorf("%w: %w", ErrNotConfigured, err)
		return g
	}

	clientOpts := &policy.ClientOptions{
		Retry: policy.RetryOptions{MaxRetries: -1},
	}
	if opts.Transport != nil {
		clientOpts.Transport = opts.Transport
	}

	g.pipeline = runtime.NewPipeline(
		moduleName, moduleVersion,
		runtime.PipelineOptions{PerRetry: []policy.Policy{auth}},
		clientOpts,
	)
	g.url = completionsURL(cfg.Endpoint, cfg.Deployment, cfg.APIVersion)

	return g
}

// Ready returns nil when the gateway has everything it needs to call the
// backend, or an ErrNotConfigured error describing what is missing.
func (g *Gateway) Ready() error {
	return g.notReady
}

// Start registers the gateway readiness probe and reports the configuration
// state once the service starts.
func (g *Gateway) Start(lc *lifecycle.Coordinator) error {
	lc.AddProbe("gateway", g.Ready)
	lc.OnStartup(func() {
		if err := g.Ready(); err != nil {
			g.logger.Warn("model gateway unavailable, classifications without red flags will fall back", "error", err)
			return
		}
		g.logger.Info("model gateway configured", "timeout", g.timeout, "max_tokens", g.maxTokens)
	})
	return nil
}

// Classify sends text to the backend under the fixed system instruction and
// returns the content of the first choice. Failures wrap ErrNotConfigured or
// ErrTransport. The call is bounded by the configured timeout and is
// cancelled with ctx.
func (g *Gateway) Classify(ctx context.Context, text string) (string, error) {
	if g.notReady != nil {
		return "", g.notReady
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := runtime.NewRequest(ctx, http.MethodPost, g.url)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}

	body := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt()},
			{Role: "user", Content: text},
		},
		Temperature: 0,
		TopP:        1,
		MaxTokens:   g.maxTokens,
	}
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrTransport, err)
	}

	resp, err := g.pipeline.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return "", fmt.Errorf("%w: %w", ErrTransport, runtime.NewResponseError(resp))
	}

	var out chatResponse
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrTransport)
	}

	return out.Choices[0].Message.Content, nil
}

func authPolicy(cfg *config.GatewayConfig, cred azcore.TokenCredential) (policy.Policy, error) {
	switch cfg.AuthType {
	case config.AuthTypeAzureAD:
		if cred == nil {
			dac, err := azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				return nil, fmt.Errorf("azure credential: %w", err)
			}
			cred = dac
		}
		return runtime.NewBearerTokenPolicy(cred, []string{CognitiveServicesScope}, nil), nil
	default:
		return &apiKeyPolicy{key: cfg.APIKey}, nil
	}
}

// apiKeyPolicy authenticates each attempt with the Azure OpenAI api-key header.
type apiKeyPolicy struct {
	key string
}

func (p *apiKeyPolicy) Do(req *policy.Request) (*http.Response, error) {
	req.Raw().Header.Set("api-key", p.key)
	return req.Next()
}

func completionsURL(endpoint, deployment, apiVersion string) string {
	return fmt.Sprintf(
		"%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(endpoint, "/"),
		url.PathEscape(deployment),
		url.QueryEscape(apiVersion),
	)
}
