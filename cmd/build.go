package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/ai/gemini"
	"github.com/spigell/hh-screener/internal/content"
	"github.com/spigell/hh-screener/internal/intent"
	"github.com/spigell/hh-screener/internal/interview"
	"github.com/spigell/hh-screener/internal/orchestrator"
	"github.com/spigell/hh-screener/internal/phrasing"
	"github.com/spigell/hh-screener/internal/profile"
	"github.com/spigell/hh-screener/internal/screening"
	"github.com/spigell/hh-screener/internal/secrets"
	"github.com/spigell/hh-screener/internal/store"
	"github.com/spigell/hh-screener/internal/telemetry"
)

// screener holds everything a command needs to run conversations.
type screener struct {
	catalog  *content.Catalog
	sessions store.Store
	metrics  *telemetry.Metrics
	service  *interview.Service
}

func (s *screener) Close() error {
	return s.sessions.Close()
}

func build(ctx context.Context, config *Config, logger *zap.Logger) (*screener, error) {
	catalog, err := loadCatalog(config.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	logger.Debug("content loaded", zap.Int("jobs", len(catalog.Jobs())))

	sessions, err := openStore(config.Store)
	if err != nil {
		return nil, err
	}

	var generator *gemini.Generator
	if config.usesGemini() {
		generator, err = newGenerator(ctx, config.AI.Gemini, logger)
		if err != nil {
			sessions.Close()
			return nil, err
		}
	}

	classifier, err := newClassifier(config.Classifier, generator, logger)
	if err != nil {
		sessions.Close()
		return nil, err
	}

	template, err := phrasing.NewTemplate()
	if err != nil {
		sessions.Close()
		return nil, err
	}

	var phraser phrasing.Phraser
	if config.Phrasing.Provider == providerGemini {
		phraser = gemini.NewPhraser(generator, template, logger, config.AI.Gemini.MaxLogLength)
	}

	engine := orchestrator.New(classifier, profile.NewExtractor(nil), logger, orchestrator.Config{
		ClassifierTimeout: config.Classifier.Timeout,
		QuestionThreshold: config.QuestionThreshold,
	})

	metrics := telemetry.New()

	service, err := interview.New(interview.Deps{
		Engine:   engine,
		Content:  catalog,
		Sessions: sessions,
		Phraser:  phraser,
		Fallback: template,
		Metrics:  metrics,
		Logger:   logger,
	}, interview.Config{PhrasingTimeout: config.Phrasing.Timeout})
	if err != nil {
		sessions.Close()
		return nil, err
	}

	logger.Info("screener ready",
		zap.String("classifier", config.Classifier.Provider),
		zap.String("phrasing", config.Phrasing.Provider),
		zap.String("store", config.Store.Driver),
	)

	return &screener{
		catalog:  catalog,
		sessions: sessions,
		metrics:  metrics,
		service:  service,
	}, nil
}

func loadCatalog(path string) (*content.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return content.Builtin()
	}
	return content.Load(path)
}

func openStore(cfg *StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case driverSQLite:
		return store.NewSQLite(cfg.Path)
	default:
		return store.NewMemory(), nil
	}
}

func newGenerator(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (*gemini.Generator, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.APIKeyFile,
	})
	if err != nil {
		logger.Error("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
		return nil, err
	}

	return gemini.NewGenerator(ctx, gemini.Options{
		APIKey:     apiKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
	}, logger)
}

// newClassifier returns the keyword classifier, or the gemini one backed by
// keywords when the model call fails.
func newClassifier(cfg *ClassifierConfig, generator *gemini.Generator, logger *zap.Logger) (intent.Classifier, error) {
	overrides, err := keywordOverrides(cfg.Keywords)
	if err != nil {
		return nil, err
	}
	keyword := intent.NewKeyword(overrides)

	if cfg.Provider != providerGemini {
		return keyword, nil
	}

	return &intent.Fallback{
		Primary:   gemini.NewClassifier(generator, logger),
		Secondary: keyword,
	}, nil
}

func keywordOverrides(raw map[string][]string) (map[screening.Intent][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	overrides := make(map[screening.Intent][]string, len(raw))
	for label, words := range raw {
		i, ok := screening.ParseIntent(label)
		if !ok {
			return nil, fmt.Errorf("classifier.keywords: unknown intent %q", label)
		}
		overrides[i] = words
	}
	return overrides, nil
}
