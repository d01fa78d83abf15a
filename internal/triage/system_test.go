package triage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/mediflow/internal/gateway"
	"github.com/JaimeStill/mediflow/internal/triage"
)

type fakeModel struct {
	mu    sync.Mutex
	calls []string
	reply string
	err   error
}

func (m *fakeModel) Classify(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	return m.reply, m.err
}

func (m *fakeModel) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSystem(model triage.Model) triage.System {
	return triage.New(nil, model, discardLogger())
}

func TestClassifyRedShortCircuit(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		flags []string
	}{
		{"chest pain and breathing", "I have chest pain and can't breathe", []string{"chest pain", "trouble breathing"}},
		{"seizure", "my son had a seizure an hour ago", []string{"seizure"}},
		{"uppercase", "CHEST PAIN since this morning", []string{"chest pain"}},
		{"padded", "   sudden seizure   ", []string{"seizure"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{reply: `{"color":"GREEN","message":"x"}`}
			sys := newSystem(model)

			result, err := sys.Classify(context.Background(), triage.Request{SymptomText: tt.text})
			if err != nil {
				t.Fatalf("Classify error: %v", err)
			}
			if result.Color != triage.Red {
				t.Errorf("Color: got %s, want RED", result.Color)
			}
			for _, flag := range tt.flags {
				if !slices.Contains(result.RedFlagsDetected, flag) {
					t.Errorf("RedFlagsDetected %v missing %q", result.RedFlagsDetected, flag)
				}
			}
			if result.Message != triage.MessageRedAlert {
				t.Errorf("Message: got %q", result.Message)
			}
			if len(result.Reasons) != 2 ||
				!strings.HasPrefix(result.Reasons[0], "Red-flag indicators detected: ") ||
				result.Reasons[1] != triage.ReasonNotDiagnostic {
				t.Errorf("Reasons: got %v", result.Reasons)
			}
			if model.count() != 0 {
				t.Errorf("model called %d times, want 0", model.count())
			}
		})
	}
}

func TestClassifyRedReasonListsKeys(t *testing.T) {
	sys := newSystem(&fakeModel{})

	result, _ := sys.Classify(context.Background(), triage.Request{SymptomText: "I have chest pain and can't breathe"})

	want := "Red-flag indicators detected: chest pain, trouble breathing"
	if result.Reasons[0] != want {
		t.Errorf("Reasons[0]: got %q, want %q", result.Reasons[0], want)
	}
}

func TestClassifyRedNotAvailableWhenGatewayDown(t *testing.T) {
	model := &fakeModel{err: fmt.Errorf("%w: missing endpoint", gateway.ErrNotConfigured)}
	sys := newSystem(model)

	result, err := sys.Classify(context.Background(), triage.Request{SymptomText: "stroke symptoms, face drooping"})
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if result.Color != triage.Red {
		t.Errorf("Color: got %s, want RED", result.Color)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		model := &fakeModel{reply: `{"color":"GREEN","message":"x"}`}
		sys := newSystem(model)

		result, err := sys.Classify(context.Background(), triage.Request{SymptomText: text})
		if !errors.Is(err, triage.ErrMalformedRequest) {
			t.Errorf("Classify(%q) error = %v, want ErrMalformedRequest", text, err)
		}
		if result.Color != triage.Yellow {
			t.Errorf("Color: got %s, want YELLOW", result.Color)
		}
		if result.Message != "Please enter symptoms to continue." {
			t.Errorf("Message: got %q", result.Message)
		}
		if model.count() != 0 {
			t.Errorf("model called for empty input %q", text)
		}
	}
}

func TestClassifyTruncation(t *testing.T) {
	t.Run("red flag past limit ignored", func(t *testing.T) {
		model := &fakeModel{reply: `{"color":"YELLOW","message":"Check soon.","reasons":["Long description"],"red_flags_detected":[]}`}
		sys := newSystem(model)

		text := strings.Repeat("a", triage.MaxSymptomLength) + " chest pain"
		result, err := sys.Classify(context.Background(), triage.Request{SymptomText: text})
		if err != nil {
			t.Fatalf("Classify error: %v", err)
		}
		if result.Color == triage.Red {
			t.Error("red flag beyond the length cap should not be detected")
		}
		if model.count() != 1 {
			t.Fatalf("model called %d times, want 1", model.count())
		}
		if got := len([]rune(model.calls[0])); got != triage.MaxSymptomLength {
			t.Errorf("model text length: got %d, want %d", got, triage.MaxSymptomLength)
		}
	})

	t.Run("red flag at limit detected", func(t *testing.T) {
		model := &fakeModel{}
		sys := newSystem(model)

		text := strings.Repeat("x ", 595) + "chest pain"
		if len(text) != triage.MaxSymptomLength {
			t.Fatalf("fixture length %d", len(text))
		}
		result, _ := sys.Classify(context.Background(), triage.Request{SymptomText: text + " and more text"})
		if result.Color != triage.Red {
			t.Errorf("Color: got %s, want RED", result.Color)
		}
		if model.count() != 0 {
			t.Error("model should not be called")
		}
	})
}

func TestClassifyModelPaths(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		modelErr    error
		wantColor   triage.Color
		wantErr     error
		wantMessage string
		wantReasons []string
		wantFlags   []string
	}{
		{
			name:        "green passthrough with legacy key",
			reply:       `{"color":"GREEN","mensaje":"Mild cold symptoms.","reasons":["Runny nose for two days"],"red_flags_detected":[]}`,
			wantColor:   triage.Green,
			wantMessage: "Mild cold symptoms.",
			wantReasons: []string{"Runny nose for two days"},
			wantFlags:   []string{},
		},
		{
			name:        "fenced yellow",
			reply:       "```json\n{\"color\":\"YELLOW\",\"message\":\"Check soon.\",\"reasons\":[\"Fever\"],\"red_flags_detected\":[]}\n```",
			wantColor:   triage.Yellow,
			wantMessage: "Check soon.",
			wantReasons: []string{"Fever"},
			wantFlags:   []string{},
		},
		{
			name:        "prose wrapped",
			reply:       `Here you go: {"color":"GREEN","message":"Mild.","reasons":[],"red_flags_detected":[]} hope this helps`,
			wantColor:   triage.Green,
			wantMessage: "Mild.",
			wantReasons: []string{},
			wantFlags:   []string{},
		},
		{
			name:        "model red without flags downgraded",
			reply:       `{"color":"RED","message":"Emergency.","reasons":["Sounds serious"],"red_flags_detected":[]}`,
			wantColor:   triage.Yellow,
			wantMessage: "Emergency.",
			wantReasons: []string{"Sounds serious", "No explicit red-flag indicators detected; downgraded to YELLOW for safety consistency."},
			wantFlags:   []string{},
		},
		{
			name:        "plain text garbage",
			reply:       "I think this is probably fine.",
			wantColor:   triage.Yellow,
			wantErr:     triage.ErrParse,
			wantMessage: triage.MessageInvalid,
			wantReasons: []string{triage.ReasonFallback, triage.ReasonHumanReview},
			wantFlags:   []string{},
		},
		{
			name:        "malformed json",
			reply:       `{"color": "GREEN", "message": }`,
			wantColor:   triage.Yellow,
			wantErr:     triage.ErrParse,
			wantMessage: triage.MessageInvalid,
			wantReasons: []string{triage.ReasonFallback, triage.ReasonHumanReview},
			wantFlags:   []string{},
		},
		{
			name:        "invalid color",
			reply:       `{"color":"ORANGE","message":"x"}`,
			wantColor:   triage.Yellow,
			wantErr:     triage.ErrValidation,
			wantMessage: triage.MessageInvalid,
			wantReasons: []string{triage.ReasonFallback, triage.ReasonHumanReview},
			wantFlags:   []string{},
		},
		{
			name:        "unreachable backend",
			modelErr:    fmt.Errorf("%w: dial tcp: connection refused", gateway.ErrTransport),
			wantColor:   triage.Yellow,
			wantErr:     triage.ErrTransport,
			wantMessage: triage.MessageUnreachable,
			wantReasons: []string{triage.ReasonFallback, triage.ReasonHumanReview},
			wantFlags:   []string{},
		},
		{
			name:        "not configured",
			modelErr:    fmt.Errorf("%w: missing endpoint", gateway.ErrNotConfigured),
			wantColor:   triage.Yellow,
			wantErr:     triage.ErrConfiguration,
			wantMessage: triage.MessageUnreachable,
			wantReasons: []string{triage.ReasonFallback, triage.ReasonHumanReview},
			wantFlags:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{reply: tt.reply, err: tt.modelErr}
			sys := newSystem(model)

			result, err := sys.Classify(context.Background(), triage.Request{SymptomText: "mild runny nose for two days"})

			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if model.count() != 1 {
				t.Errorf("model called %d times, want exactly 1", model.count())
			}
			if result.Color != tt.wantColor {
				t.Errorf("Color: got %s, want %s", result.Color, tt.wantColor)
			}
			if result.Message != tt.wantMessage {
				t.Errorf("Message: got %q, want %q", result.Message, tt.wantMessage)
			}
			if !slices.Equal(result.Reasons, tt.wantReasons) {
				t.Errorf("Reasons: got %v, want %v", result.Reasons, tt.wantReasons)
			}
			if !slices.Equal(result.RedFlagsDetected, tt.wantFlags) || result.RedFlagsDetected == nil {
				t.Errorf("RedFlagsDetected: got %#v, want %v", result.RedFlagsDetected, tt.wantFlags)
			}
		})
	}
}

func TestClassifyStageLogs(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		modelErr error
		level    string
		stage    string
		contains string
	}{
		{
			name:     "configuration",
			modelErr: gateway.ErrNotConfigured,
			level:    "level=WARN",
			stage:    "stage=model_call",
			contains: "model gateway not configured",
		},
		{
			name:     "transport",
			modelErr: gateway.ErrTransport,
			level:    "level=ERROR",
			stage:    "stage=model_call",
			contains: "status=0",
		},
		{
			name:     "parse",
			reply:    "not json at all",
			level:    "level=ERROR",
			stage:    "stage=parse",
			contains: `raw_output="not json at all"`,
		},
		{
			name:     "validation",
			reply:    `{"color":"PURPLE","message":"x"}`,
			level:    "level=ERROR",
			stage:    "stage=validate",
			contains: "PURPLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			sys := triage.New(nil, &fakeModel{reply: tt.reply, err: tt.modelErr}, logger)

			id := uuid.New()
			ctx := triage.WithClassificationID(context.Background(), id)
			sys.Classify(ctx, triage.Request{SymptomText: "sore throat", PatientName: "Jordan Example"})

			out := buf.String()
			for _, want := range []string{tt.level, tt.stage, tt.contains, "next=fallback", "classification_id=" + id.String()} {
				if !strings.Contains(out, want) {
					t.Errorf("log output missing %q:\n%s", want, out)
				}
			}
			if strings.Contains(out, "Jordan Example") {
				t.Error("patient name must not be logged")
			}
		})
	}
}

func TestClassifyConcurrent(t *testing.T) {
	model := &fakeModel{reply: `{"color":"GREEN","message":"Mild.","reasons":[],"red_flags_detected":[]}`}
	sys := newSystem(model)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			text := "mild cough"
			if i%2 == 0 {
				text = "chest pain"
			}
			result, err := sys.Classify(context.Background(), triage.Request{SymptomText: text})
			if err != nil {
				t.Errorf("Classify error: %v", err)
			}
			if i%2 == 0 && result.Color != triage.Red {
				t.Errorf("Color: got %s, want RED", result.Color)
			}
			if i%2 == 1 && result.Color != triage.Green {
				t.Errorf("Color: got %s, want GREEN", result.Color)
			}
		})
	}
	wg.Wait()

	if model.count() != 10 {
		t.Errorf("model calls: got %d, want 10", model.count())
	}
}

func TestRules(t *testing.T) {
	sys := newSystem(&fakeModel{})
	rules := sys.Rules()
	if len(rules) != 10 {
		t.Fatalf("Rules() returned %d keys, want 10", len(rules))
	}
	if rules[0] != "chest pain" {
		t.Errorf("Rules()[0] = %q, want chest pain", rules[0])
	}
}

func TestClassificationID(t *testing.T) {
	if _, ok := triage.ClassificationID(context.Background()); ok {
		t.Error("empty context should carry no id")
	}

	id := uuid.New()
	got, ok := triage.ClassificationID(triage.WithClassificationID(context.Background(), id))
	if !ok || got != id {
		t.Errorf("ClassificationID() = %v, %v; want %v, true", got, ok, id)
	}
}

func errNotConfigured() error {
	return fmt.Errorf("%w: missing api_key", gateway.ErrNotConfigured)
}
