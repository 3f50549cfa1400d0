package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/screening"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"

	FieldSession   = "session_id"
	FieldJob       = "job_id"
	FieldStage     = "stage"
	FieldIntent    = "intent"
	FieldDirective = "directive"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a
// no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// AIFields describes the AI provider and model. Empty values are ignored.
func AIFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithAI attaches the AI provider and model to the logger.
func WithAI(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, AIFields(provider, model)...)
}

// SessionFields describes a screening session at its current stage.
func SessionFields(s *screening.Session) []zap.Field {
	if s == nil {
		return nil
	}
	return StringFields(
		StringField{Key: FieldSession, Value: s.ID},
		StringField{Key: FieldJob, Value: s.JobID},
		StringField{Key: FieldStage, Value: string(s.Stage)},
	)
}

// WithSession attaches the session identity to the logger.
func WithSession(logger *zap.Logger, s *screening.Session) *zap.Logger {
	return WithFields(logger, SessionFields(s)...)
}
