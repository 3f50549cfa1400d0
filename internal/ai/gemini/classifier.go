package gemini

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/ai"
	"github.com/spigell/hh-screener/internal/intent"
	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/screening"
)

//go:embed classify_prompt.md
var classifyPrompt string

// Classifier asks Gemini for an intent label. Errors and unknown labels are
// reported as screening.ErrClassifierUnavailable.
type Classifier struct {
	generator ai.Generator
	logger    *zap.Logger
}

var _ intent.Classifier = (*Classifier)(nil)

func NewClassifier(generator ai.Generator, log *zap.Logger) *Classifier {
	return &Classifier{
		generator: generator,
		logger:    logger.WithAI(log, ai.ProviderGemini, generator.Model()),
	}
}

func (c *Classifier) Classify(ctx context.Context, text string, history []screening.Message) (screening.Intent, error) {
	var sb strings.Builder
	sb.WriteString("CONVERSATION:\n")
	sb.WriteString(formatHistory(history, historyWindow))
	sb.WriteString("\n\nLATEST MESSAGE:\n")
	sb.WriteString(text)

	raw, err := c.generator.GenerateContent(ctx, classifyPrompt, sb.String())
	if err != nil {
		return "", fmt.Errorf("%w: %w", screening.ErrClassifierUnavailable, err)
	}

	label := normalizeLabel(raw)
	got, ok := screening.ParseIntent(label)
	if !ok {
		return "", fmt.Errorf("%w: unexpected label %q", screening.ErrClassifierUnavailable, raw)
	}

	c.logger.Debug("gemini classified message", zap.String(logger.FieldIntent, string(got)))
	return got, nil
}

func normalizeLabel(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.Trim(label, "`\"'.*: \n")
	if fields := strings.Fields(label); len(fields) > 0 {
		label = fields[0]
	}
	return strings.Trim(label, "`\"'.*:,")
}
