// Package interview runs screening conversations end to end: it loads the
// session, advances it with the orchestrator, renders the reply and saves
// the result, one turn at a time per session.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/content"
	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/orchestrator"
	"github.com/spigell/hh-screener/internal/phrasing"
	"github.com/spigell/hh-screener/internal/screening"
	"github.com/spigell/hh-screener/internal/store"
	"github.com/spigell/hh-screener/internal/telemetry"
	"github.com/spigell/hh-screener/internal/utils"
)

// ErrSessionNotFound is returned for turns on unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

const maxLogLength = 120

type Config struct {
	// PhrasingTimeout bounds one Render call of the primary phraser.
	PhrasingTimeout time.Duration
}

type Service struct {
	engine   *orchestrator.Engine
	content  content.Repository
	sessions store.Store
	phraser  phrasing.Phraser
	fallback phrasing.Phraser
	metrics  *telemetry.Metrics
	logger   *zap.Logger
	cfg      Config
	// primary is false when replies come from the fallback alone.
	primary  bool

	locks    *lockSet
	validate *validator.Validate
	newID    func() string
}

type Deps struct {
	Engine   *orchestrator.Engine
	Content  content.Repository
	Sessions store.Store
	// Phraser words replies. Fallback is used when it fails and for texts
	// that must not depend on it. Both default to the template phraser.
	Phraser  phrasing.Phraser
	Fallback phrasing.Phraser
	Metrics  *telemetry.Metrics
	Logger   *zap.Logger
}

func New(deps Deps, cfg Config) (*Service, error) {
	if deps.Engine == nil || deps.Content == nil || deps.Sessions == nil {
		return nil, errors.New("engine, content repository and session store are required")
	}

	fallback := deps.Fallback
	if fallback == nil {
		tmpl, err := phrasing.NewTemplate()
		if err != nil {
			return nil, err
		}
		fallback = tmpl
	}
	phraser := deps.Phraser
	primary := phraser != nil
	if !primary {
		phraser = fallback
	}

	return &Service{
		engine:   deps.Engine,
		content:  deps.Content,
		sessions: deps.Sessions,
		phraser:  phraser,
		fallback: fallback,
		metrics:  deps.Metrics,
		logger:   logger.OrNop(deps.Logger),
		cfg:      cfg,
		primary:  primary,
		locks:    newLockSet(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newID:    uuid.NewString,
	}, nil
}

// StartRequest opens a conversation with a candidate about a job.
type StartRequest struct {
	CandidateID   string             `json:"candidate_id" validate:"required"`
	CandidateName string             `json:"candidate_name,omitempty"`
	Platform      screening.Platform `json:"platform" validate:"required,oneof=linkedin unipile"`
	JobID         string             `json:"job_id" validate:"required"`
	// CompanyID defaults to the job's company.
	CompanyID string            `json:"company_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Reply is the interviewer's answer to one turn.
type Reply struct {
	SessionID              string                      `json:"session_id"`
	Text                   string                      `json:"response"`
	Directive              screening.DirectiveKind     `json:"directive"`
	Stage                  screening.Stage             `json:"stage"`
	Ended                  bool                        `json:"conversation_ended"`
	NeedsHumanIntervention bool                        `json:"needs_human_intervention"`
	Evaluation             *screening.EvaluationResult `json:"evaluation,omitempty"`
}

// Start creates a session and returns the greeting. Unknown jobs or
// companies fail with an error wrapping screening.ErrRepositoryMiss.
func (s *Service) Start(ctx context.Context, req StartRequest) (*Reply, error) {
	if err := s.validateStart(req); err != nil {
		return nil, err
	}

	job, company, err := s.lookup(ctx, req.JobID, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("start conversation: %w", err)
	}
	questions, err := s.content.Questions(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("start conversation: %w", err)
	}

	session := screening.NewSession(s.newID(), job.ID, screening.Candidate{
		ID:       req.CandidateID,
		Name:     strings.TrimSpace(req.CandidateName),
		Platform: req.Platform,
	}, questions)
	if company != nil {
		session.CompanyID = company.ID
	}
	if len(req.Metadata) > 0 {
		session.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			session.Metadata[k] = v
		}
	}

	unlock := s.locks.lock(session.ID)
	defer unlock()

	reply, err := s.turn(ctx, session, "", job, company)
	if err != nil {
		return nil, err
	}

	s.metrics.SessionStarted()
	logger.WithSession(s.logger, session).Info("conversation started",
		zap.String("candidate_id", req.CandidateID),
		zap.String("platform", string(req.Platform)),
	)
	return reply, nil
}

// Reply processes one candidate message. Turns on the same session are
// serialized; turns on different sessions run in parallel.
func (s *Service) Reply(ctx context.Context, sessionID, text string) (*Reply, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	job, company, err := s.lookup(ctx, session.JobID, session.CompanyID)
	if err != nil {
		logger.WithSession(s.logger, session).Warn("content unavailable, replying without it", zap.Error(err))
	}

	return s.turn(ctx, session, text, job, company)
}

// Session returns a snapshot of the session.
func (s *Service) Session(ctx context.Context, sessionID string) (*Summary, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return summarize(session), nil
}

func (s *Service) turn(ctx context.Context, session *screening.Session, text string, job *screening.JobProfile, company *screening.CompanyFacts) (*Reply, error) {
	started := time.Now()
	log := logger.WithSession(s.logger, session)

	res, err := s.engine.ProcessTurn(ctx, session, text)
	if err != nil {
		return nil, err
	}
	next := res.Session

	reply := s.render(ctx, log, phrasing.Request{
		Directive: res.Directive,
		Job:       job,
		Company:   company,
		Candidate: next.Candidate,
		History:   next.History(0),
	})

	if res.Directive.Kind != screening.DirectiveAlreadyClosed && res.Directive.Kind != screening.DirectiveApology {
		next.AttachReplyText(reply)
	}

	if err := s.sessions.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.metrics.ObserveTurn(res.Directive, time.Since(started))
	log.Debug("turn completed",
		zap.String(logger.FieldIntent, string(res.Intent)),
		zap.String(logger.FieldDirective, string(res.Directive.Kind)),
		zap.String("reply_preview", utils.Excerpt(reply, maxLogLength)),
	)

	return &Reply{
		SessionID:              next.ID,
		Text:                   reply,
		Directive:              res.Directive.Kind,
		Stage:                  next.Stage,
		Ended:                  next.Ended,
		NeedsHumanIntervention: next.NeedsHumanIntervention,
		Evaluation:             next.Evaluation,
	}, nil
}

// render never fails: primary phraser errors fall back to the template
// phraser, and a failing fallback yields the apology text.
func (s *Service) render(ctx context.Context, log *zap.Logger, req phrasing.Request) string {
	switch req.Directive.Kind {
	case screening.DirectiveAlreadyClosed:
		return phrasing.AlreadyClosedText
	case screening.DirectiveApology:
		return phrasing.ApologyText
	}

	if s.primary {
		text, err := s.renderWithTimeout(ctx, s.phraser, req)
		if err == nil {
			return text
		}
		log.Warn("phrasing failed, using fallback", zap.Error(err))
		s.metrics.PhrasingFellBack()
	}

	text, err := s.fallback.Render(ctx, req)
	if err != nil {
		log.Error("fallback phrasing failed", zap.Error(err))
		return phrasing.ApologyText
	}
	return text
}

func (s *Service) renderWithTimeout(ctx context.Context, p phrasing.Phraser, req phrasing.Request) (string, error) {
	if s.cfg.PhrasingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PhrasingTimeout)
		defer cancel()
	}
	return p.Render(ctx, req)
}

func (s *Service) lookup(ctx context.Context, jobID, companyID string) (*screening.JobProfile, *screening.CompanyFacts, error) {
	job, err := s.content.Job(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}

	if companyID == "" {
		companyID = job.CompanyID
	}
	if companyID == "" {
		return job, nil, nil
	}

	company, err := s.content.Company(ctx, companyID)
	if err != nil {
		return job, nil, err
	}
	return job, company, nil
}

func (s *Service) validateStart(req StartRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &screening.ValidationError{Entity: "start request", Problems: []string{err.Error()}}
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
	}
	return &screening.ValidationError{Entity: "start request", Problems: problems}
}
