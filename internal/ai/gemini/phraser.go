package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/ai"
	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/phrasing"
	"github.com/spigell/hh-screener/internal/screening"
	"github.com/spigell/hh-screener/internal/utils"
)

//go:embed phrase_prompt.md
var phrasePrompt string

const (
	defaultMaxLogLength = 200
	historyWindow       = 10
)

// Phraser words directives with Gemini. Directives with fixed wording are
// delegated to the fallback phraser and never reach the model.
type Phraser struct {
	generator ai.Generator
	fallback  phrasing.Phraser
	logger    *zap.Logger
	maxLogLen int
}

var _ phrasing.Phraser = (*Phraser)(nil)

func NewPhraser(generator ai.Generator, fallback phrasing.Phraser, log *zap.Logger, maxLogLength int) *Phraser {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Phraser{
		generator: generator,
		fallback:  fallback,
		logger:    logger.WithAI(log, ai.ProviderGemini, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (p *Phraser) Render(ctx context.Context, req phrasing.Request) (string, error) {
	switch req.Directive.Kind {
	case screening.DirectiveAlreadyClosed, screening.DirectiveApology:
		return p.fallback.Render(ctx, req)
	}

	message, err := buildPhraseMessage(req)
	if err != nil {
		return "", err
	}

	p.logger.Debug("gemini phrasing request",
		zap.String(logger.FieldDirective, string(req.Directive.Kind)),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.Excerpt(message, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, phrasePrompt, message)
	if err != nil {
		return "", err
	}

	text := strings.Trim(strings.TrimSpace(raw), "\"")
	p.logger.Debug("gemini phrasing response",
		zap.String(logger.FieldDirective, string(req.Directive.Kind)),
		zap.String("response_preview", utils.Excerpt(text, p.maxLogLen)),
	)
	if text == "" {
		return "", fmt.Errorf("gemini returned empty phrasing for %s", req.Directive.Kind)
	}
	return text, nil
}

func buildPhraseMessage(req phrasing.Request) (string, error) {
	instruction, err := instructionFor(req.Directive)
	if err != nil {
		return "", err
	}

	facts := map[string]any{"candidate": req.Candidate}
	if req.Job != nil {
		job := *req.Job
		job.Questions = nil
		facts["job"] = job
	}
	if req.Company != nil {
		facts["company"] = req.Company
	}
	contextJSON, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal phrasing context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("INSTRUCTION:\n")
	sb.WriteString(instruction)
	sb.WriteString("\n\nCONTEXT:\n")
	sb.Write(contextJSON)
	sb.WriteString("\n\nCONVERSATION:\n")
	sb.WriteString(formatHistory(req.History, historyWindow))
	return sb.String(), nil
}

func instructionFor(d screening.Directive) (string, error) {
	switch d.Kind {
	case screening.DirectiveGreet:
		return "Greet the candidate, introduce yourself as a recruiter from the company, mention the position and ask if they have a few minutes to chat.", nil
	case screening.DirectiveAskQuestion:
		if d.Question == nil {
			return "", fmt.Errorf("ask_question directive without a question")
		}
		return "Ask this screening question: " + d.Question.Text, nil
	case screening.DirectiveAnswerTopic:
		return fmt.Sprintf("Answer the candidate's question (%s) using the context.", d.Intent), nil
	case screening.DirectiveAcknowledgeInfo:
		return "Thank the candidate for the details they shared and invite them to tell more about their experience.", nil
	case screening.DirectiveFollowUp:
		return "Reply to the candidate and ask a generic follow-up question about their experience.", nil
	case screening.DirectiveClose:
		verdict, ok := d.Verdict()
		switch {
		case !ok:
			return "Close the conversation politely and say the team will be in touch with next steps.", nil
		case verdict == screening.SuitabilityHigh:
			return "Close the conversation: the candidate looks like a great fit; the team will reach out within 2-3 business days to schedule the next interview.", nil
		case verdict == screening.SuitabilityMedium:
			return "Close the conversation: a recruiter will do a quick follow-up call within the next week.", nil
		default:
			return "Close the conversation kindly: this role may not be the right fit now, the candidate's information stays on file for future opportunities.", nil
		}
	default:
		return "", fmt.Errorf("unknown directive %q", d.Kind)
	}
}

func formatHistory(history []screening.Message, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) == 0 {
		return "(no previous messages)"
	}

	lines := make([]string, 0, len(history))
	for _, m := range history {
		text := m.Text
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.Sender, text))
	}
	return strings.Join(lines, "\n")
}
