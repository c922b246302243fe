package filter

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	metrics "github.com/BotWall/CensorGate/pkg/infra/prometheus"
)

const (
	DefaultInputRejection  = "user input rejected by content moderation"
	DefaultOutputRejection = "model output rejected by content moderation"
)

// Hook is the surface a hosting chat-bot application drives directly:
// OnIncomingText before a user message reaches the model, OnModelOutput
// before a completion reaches the user.
type Hook interface {
	OnIncomingText(ctx context.Context, text string) Decision
	OnModelOutput(ctx context.Context, text string) Decision
}

// Decision tells the host what to do with the checked text. When Allowed is
// false, Replacement carries the fixed rejection message to show instead of
// the original content.
type Decision struct {
	Allowed     bool
	Replacement string
}

// TextChecker is the whole-text moderation operation backing both hooks.
type TextChecker interface {
	CheckText(ctx context.Context, text string) bool
}

// Settings gates each direction independently and carries the rejection
// messages. A disabled direction always allows without dispatching.
type Settings struct {
	InputEnabled    bool   `mapstructure:"input_enabled"`
	OutputEnabled   bool   `mapstructure:"output_enabled"`
	InputRejection  string `mapstructure:"input_rejection"`
	OutputRejection string `mapstructure:"output_rejection"`
}

// DecodeSettings builds Settings from the generic settings map a host
// framework hands plugins.
func DecodeSettings(raw map[string]interface{}) (Settings, error) {
	var s Settings
	if err := mapstructure.Decode(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode filter settings: %w", err)
	}
	return s, nil
}

// CensorFilter implements Hook on top of a TextChecker.
type CensorFilter struct {
	checker  TextChecker
	settings Settings
	logger   *logrus.Logger
}

func NewCensorFilter(checker TextChecker, settings Settings, logger *logrus.Logger) *CensorFilter {
	if settings.InputRejection == "" {
		settings.InputRejection = DefaultInputRejection
	}
	if settings.OutputRejection == "" {
		settings.OutputRejection = DefaultOutputRejection
	}
	return &CensorFilter{
		checker:  checker,
		settings: settings,
		logger:   logger,
	}
}

func (f *CensorFilter) OnIncomingText(ctx context.Context, text string) Decision {
	if !f.settings.InputEnabled {
		return Decision{Allowed: true}
	}
	return f.check(ctx, "input", text, f.settings.InputRejection)
}

func (f *CensorFilter) OnModelOutput(ctx context.Context, text string) Decision {
	if !f.settings.OutputEnabled {
		return Decision{Allowed: true}
	}
	return f.check(ctx, "output", text, f.settings.OutputRejection)
}

func (f *CensorFilter) check(ctx context.Context, direction, text, rejection string) Decision {
	start := time.Now()
	allowed := f.checker.CheckText(ctx, text)
	metrics.TextCheckLatency.WithLabelValues(direction).Observe(float64(time.Since(start).Milliseconds()))

	if allowed {
		metrics.TextChecksTotal.WithLabelValues(direction, "allowed").Inc()
		return Decision{Allowed: true}
	}

	metrics.TextChecksTotal.WithLabelValues(direction, "blocked").Inc()
	f.logger.WithFields(logrus.Fields{
		"direction": direction,
		"length":    len(text),
	}).Warn("text blocked by content moderation")
	return Decision{Allowed: false, Replacement: rejection}
}
