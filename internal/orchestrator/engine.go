// Package orchestrator runs one conversation turn: it classifies the inbound
// message, routes it by stage and returns the directive the interviewer
// should act on. It performs no I/O besides the classifier call.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/intent"
	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/profile"
	"github.com/spigell/hh-screener/internal/screening"
)

// DefaultQuestionThreshold is the transcript length at which killer
// questions start when nothing else routed the message.
const DefaultQuestionThreshold = 4

type Config struct {
	// ClassifierTimeout bounds a single classifier call. Zero means no limit
	// beyond the caller's context.
	ClassifierTimeout time.Duration
	// QuestionThreshold overrides DefaultQuestionThreshold when positive.
	QuestionThreshold int
}

type Engine struct {
	classifier intent.Classifier
	extractor  *profile.Extractor
	logger     *zap.Logger
	cfg        Config
	now        func() time.Time
}

// Result is the outcome of one turn.
type Result struct {
	Session   *screening.Session
	Directive screening.Directive
	// Intent is empty when the turn did not classify the message.
	Intent screening.Intent
	// Fault wraps screening.ErrInternalFault when the turn was recovered.
	Fault error
}

func New(classifier intent.Classifier, extractor *profile.Extractor, log *zap.Logger, cfg Config) *Engine {
	if classifier == nil {
		classifier = intent.NewKeyword(nil)
	}
	if extractor == nil {
		extractor = profile.NewExtractor(nil)
	}
	if cfg.QuestionThreshold <= 0 {
		cfg.QuestionThreshold = DefaultQuestionThreshold
	}

	return &Engine{
		classifier: classifier,
		extractor:  extractor,
		logger:     logger.OrNop(log),
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Step advances the session by one inbound message. The input session is
// never mutated.
func (e *Engine) Step(ctx context.Context, s *screening.Session, inbound string) (*screening.Session, screening.Directive, error) {
	res, err := e.ProcessTurn(ctx, s, inbound)
	if err != nil {
		return nil, screening.Directive{}, err
	}
	return res.Session, res.Directive, nil
}

// ProcessTurn is Step with the classified intent and any recovered fault
// exposed. Malformed sessions are rejected with a screening.ValidationError.
// Any other failure is recovered: the returned session equals the input
// except for NeedsHumanIntervention, and the directive is an apology.
func (e *Engine) ProcessTurn(ctx context.Context, s *screening.Session, inbound string) (res Result, err error) {
	if s == nil {
		return Result{}, &screening.ValidationError{Entity: "session", Problems: []string{"session is required"}}
	}
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	log := logger.WithSession(e.logger, s)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		fault := fmt.Errorf("%w: %v", screening.ErrInternalFault, r)
		log.Error("turn failed, handing over to a human",
			zap.Error(fault),
			zap.ByteString("stack", debug.Stack()),
		)
		res = e.apology(s, fault)
		err = nil
	}()

	work := s.Clone()
	directive, classified := e.route(ctx, log, work, inbound)

	if verr := work.Validate(); verr != nil {
		fault := fmt.Errorf("%w: turn produced an invalid session: %v", screening.ErrInternalFault, verr)
		log.Error("turn failed, handing over to a human", zap.Error(fault))
		return e.apology(s, fault), nil
	}

	if directive.Kind != screening.DirectiveAlreadyClosed {
		work.AppendMessage(screening.Message{
			Sender:    screening.SenderInterviewer,
			Directive: directive.Kind,
			At:        e.now(),
		})
		work.UpdatedAt = e.now()
	}

	log.Debug("turn routed",
		zap.String(logger.FieldIntent, string(classified)),
		zap.String(logger.FieldDirective, string(directive.Kind)),
		zap.String("next_stage", string(work.Stage)),
		zap.Bool("ended", work.Ended),
	)

	return Result{Session: work, Directive: directive, Intent: classified}, nil
}

func (e *Engine) apology(original *screening.Session, fault error) Result {
	s := original.Clone()
	s.NeedsHumanIntervention = true
	return Result{
		Session:   s,
		Directive: screening.Directive{Kind: screening.DirectiveApology},
		Fault:     fault,
	}
}

// classify never fails: classifier errors and unknown labels degrade to a
// general inquiry.
func (e *Engine) classify(ctx context.Context, log *zap.Logger, text string, history []screening.Message) screening.Intent {
	if e.cfg.ClassifierTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.ClassifierTimeout)
		defer cancel()
	}

	got, err := e.classifier.Classify(ctx, text, history)
	if err == nil {
		if known, ok := screening.ParseIntent(string(got)); ok {
			return known
		}
		err = fmt.Errorf("unknown intent %q", got)
	}

	if !errors.Is(err, screening.ErrClassifierUnavailable) {
		err = fmt.Errorf("%w: %w", screening.ErrClassifierUnavailable, err)
	}
	log.Warn("falling back to general inquiry", zap.Error(err))
	return screening.IntentGeneralInquiry
}
