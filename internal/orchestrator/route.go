package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/profile"
	"github.com/spigell/hh-screener/internal/scoring"
	"github.com/spigell/hh-screener/internal/screening"
	"github.com/spigell/hh-screener/internal/sequencer"
)

// route applies the transition table to s in place.
func (e *Engine) route(ctx context.Context, log *zap.Logger, s *screening.Session, inbound string) (screening.Directive, screening.Intent) {
	if s.Ended {
		return screening.Directive{Kind: screening.DirectiveAlreadyClosed}, ""
	}

	if len(s.Messages) == 0 {
		s.Stage = screening.StageInformationGathering
		return screening.Directive{Kind: screening.DirectiveGreet}, ""
	}

	history := append([]screening.Message(nil), s.Messages...)
	s.AppendMessage(screening.Message{
		Sender: screening.SenderCandidate,
		Text:   inbound,
		At:     e.now(),
	})

	got := e.classify(ctx, log, inbound, history)
	s.LastIntent = got
	profile.Merge(&s.Candidate, e.extractor.Extract(inbound))

	switch {
	case got == screening.IntentEndConversation:
		if len(s.Answers) > 0 {
			return conclude(s), got
		}
		s.End()
		return screening.Directive{Kind: screening.DirectiveClose}, got

	case s.Stage == screening.StageKillerQuestions:
		if id, ok := sequencer.Pending(s); ok {
			if !s.RecordAnswer(id, inbound) {
				log.Debug("answer already recorded", zap.String("question_id", id))
			}
		}
		if len(sequencer.Remaining(s)) > 0 {
			return ask(s), got
		}
		return conclude(s), got

	case got.IsTopical():
		s.Stage = screening.StageCompanyQuestions
		return screening.Directive{Kind: screening.DirectiveAnswerTopic, Intent: got}, got

	case got == screening.IntentProvideInfo:
		s.Stage = screening.StageInformationGathering
		return screening.Directive{Kind: screening.DirectiveAcknowledgeInfo}, got

	case len(s.Messages) >= e.cfg.QuestionThreshold && !sequencer.AnyAsked(s):
		s.Stage = screening.StageKillerQuestions
		if len(s.Questions) == 0 {
			return conclude(s), got
		}
		return ask(s), got

	default:
		s.Stage = screening.StageInformationGathering
		return screening.Directive{Kind: screening.DirectiveFollowUp}, got
	}
}

func ask(s *screening.Session) screening.Directive {
	q, ok := sequencer.Next(s)
	if !ok {
		return conclude(s)
	}
	return screening.Directive{Kind: screening.DirectiveAskQuestion, Question: q}
}

// conclude scores the answers and closes the conversation in one turn.
func conclude(s *screening.Session) screening.Directive {
	s.Stage = screening.StageEvaluation
	s.SetEvaluation(scoring.Evaluate(s.Questions, s.Answers))
	s.End()
	return screening.Directive{Kind: screening.DirectiveClose, Evaluation: s.Evaluation}
}
