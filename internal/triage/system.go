package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/mediflow/internal/gateway"
	"github.com/JaimeStill/mediflow/internal/redflags"
	"github.com/JaimeStill/mediflow/pkg/formatting"
)

// Model returns the raw reply of a language model for a symptom description.
type Model interface {
	Classify(ctx context.Context, text string) (string, error)
}

// System defines the public contract for triage operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	// Classify always returns a usable Result. A non-nil error reports why
	// the Result is a fallback advisory instead of a classification.
	Classify(ctx context.Context, req Request) (Result, error)

	// Rules returns the red-flag rule keys in evaluation order.
	Rules() []string
}

type system struct {
	detector *redflags.Detector
	model    Model
	logger   *slog.Logger
}

// New creates a triage System. A nil detector uses the default rule table.
func New(detector *redflags.Detector, model Model, logger *slog.Logger) System {
	if detector == nil {
		detector = redflags.New()
	}
	return &system{
		detector: detector,
		model:    model,
		logger:   logger.With("system", "triage"),
	}
}

func (s *system) Handler(maxBodySize int64) *Handler {
	return NewHandler(s, s.logger, maxBodySize)
}

func (s *system) Rules() []string {
	return s.detector.Keys()
}

func (s *system) Classify(ctx context.Context, req Request) (Result, error) {
	id, ok := ClassificationID(ctx)
	if !ok {
		id = uuid.New()
	}
	logger := s.logger.With("classification_id", id)

	text := req.Symptoms()
	if text == "" {
		logger.Info("classification rejected", "stage", StageStart, "reason", "empty symptom text")
		return FallbackResult(MessageEmptyInput), fmt.Errorf("%w: symptom text is empty", ErrMalformedRequest)
	}

	if keys := s.detector.Detect(text); len(keys) > 0 {
		logger.Info("red flags detected", "stage", StageRedShortCircuit, "red_flags", keys)
		return redAlert(keys), nil
	}

	raw, err := s.model.Classify(ctx, text)
	if err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) {
			logger.Warn("model gateway not configured",
				"stage", StageModelCall,
				"next", StageFallback,
				"error", err,
			)
			return FallbackResult(MessageUnreachable), fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		logger.Error("model call failed",
			"stage", StageModelCall,
			"next", StageFallback,
			"status", gateway.StatusCode(err),
			"error", err,
		)
		return FallbackResult(MessageUnreachable), fmt.Errorf("%w: %w", ErrTransport, err)
	}

	parsed, err := formatting.Extract(raw)
	if err != nil {
		logger.Error("model output not parseable",
			"stage", StageParse,
			"next", StageFallback,
			"raw_output", raw,
			"error", err,
		)
		return FallbackResult(MessageInvalid), fmt.Errorf("%w: %w", ErrParse, err)
	}

	result, err := Validate(parsed)
	if err != nil {
		logger.Error("model output failed validation",
			"stage", StageValidate,
			"next", StageFallback,
			"parsed", parsed,
			"error", err,
		)
		return FallbackResult(MessageInvalid), err
	}

	logger.Info("classification complete", "stage", StageDone, "color", result.Color)
	return result, nil
}

type idKey struct{}

// WithClassificationID returns a context carrying id as the correlation id
// for the classification run under it.
func WithClassificationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// ClassificationID returns the correlation id attached to ctx, if any.
func ClassificationID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(idKey{}).(uuid.UUID)
	return id, ok
}
