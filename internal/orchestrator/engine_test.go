package orchestrator

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/hh-screener/internal/intent"
	"github.com/spigell/hh-screener/internal/screening"
)

func twoRequired() []screening.Question {
	return []screening.Question{
		{ID: "microservices", Text: "Tell me about microservices", ExpectedKeywords: []string{"docker", "kubernetes"}, Weight: 0.5, Required: true},
		{ID: "availability", Text: "When can you start?", ExpectedKeywords: []string{"immediately", "notice"}, Weight: 0.5, Required: true},
	}
}

func newEngine(t *testing.T, classifier intent.Classifier) (*Engine, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return New(classifier, nil, zap.New(core), Config{}), logs
}

type conversation struct {
	t       *testing.T
	engine  *Engine
	session *screening.Session
}

func startConversation(t *testing.T, e *Engine, questions []screening.Question) *conversation {
	t.Helper()
	c := &conversation{t: t, engine: e, session: screening.NewSession("s1", "job", screening.Candidate{ID: "c1"}, questions)}
	if d := c.send(""); d.Kind != screening.DirectiveGreet {
		t.Fatalf("expected greeting, got %q", d.Kind)
	}
	return c
}

func (c *conversation) send(text string) screening.Directive {
	c.t.Helper()
	next, directive, err := c.engine.Step(context.Background(), c.session, text)
	if err != nil {
		c.t.Fatalf("step %q: unexpected error: %v", text, err)
	}
	c.session = next
	return directive
}

func TestGreetingStartsInformationGathering(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, twoRequired())

	if c.session.Stage != screening.StageInformationGathering {
		t.Fatalf("expected information_gathering, got %q", c.session.Stage)
	}
	if len(c.session.Messages) != 1 || c.session.Messages[0].Directive != screening.DirectiveGreet {
		t.Fatalf("expected single greeting entry, got %+v", c.session.Messages)
	}
}

func TestFullCoverageScoresHigh(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, twoRequired())

	if d := c.send("Hmm"); d.Kind != screening.DirectiveFollowUp {
		t.Fatalf("expected follow up, got %q", d.Kind)
	}

	d := c.send("ok then")
	if d.Kind != screening.DirectiveAskQuestion || d.Question.ID != "microservices" {
		t.Fatalf("expected first question, got %+v", d)
	}
	if c.session.Stage != screening.StageKillerQuestions {
		t.Fatalf("expected killer_questions, got %q", c.session.Stage)
	}

	d = c.send("Docker and Kubernetes everywhere")
	if d.Kind != screening.DirectiveAskQuestion || d.Question.ID != "availability" {
		t.Fatalf("expected second question, got %+v", d)
	}

	d = c.send("Immediately, my notice period is over")
	if d.Kind != screening.DirectiveClose {
		t.Fatalf("expected close, got %q", d.Kind)
	}

	verdict, ok := d.Verdict()
	if !ok || verdict != screening.SuitabilityHigh {
		t.Fatalf("expected high verdict, got %q %v", verdict, ok)
	}
	if c.session.Evaluation.OverallScore != 100 {
		t.Fatalf("expected score 100, got %v", c.session.Evaluation.OverallScore)
	}
	if !c.session.Ended || c.session.Stage != screening.StageClosing {
		t.Fatalf("expected ended session in closing, got %q ended=%v", c.session.Stage, c.session.Ended)
	}
}

func TestEndingWithOneWeakAnswerScoresLow(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, twoRequired())
	c.send("Hmm")
	c.send("ok then")
	c.send("I mostly write scripts")

	d := c.send("Not interested anymore, bye")
	if d.Kind != screening.DirectiveClose {
		t.Fatalf("expected close, got %q", d.Kind)
	}

	result := c.session.Evaluation
	if result == nil {
		t.Fatalf("expected evaluation")
	}
	if result.AnsweredCount != 1 {
		t.Fatalf("expected 1 answer, got %d", result.AnsweredCount)
	}
	if len(result.Concerns) == 0 {
		t.Fatalf("expected concerns")
	}
	if result.OverallScore >= 40 {
		t.Fatalf("expected score below 40, got %v", result.OverallScore)
	}
}

func TestJobWithoutQuestionsEvaluatesToZero(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, nil)
	c.send("Hmm")

	d := c.send("ok then")
	if d.Kind != screening.DirectiveClose {
		t.Fatalf("expected close, got %q", d.Kind)
	}
	if c.session.Evaluation == nil || c.session.Evaluation.OverallScore != 0 {
		t.Fatalf("expected zero evaluation, got %+v", c.session.Evaluation)
	}
	if !c.session.Ended {
		t.Fatalf("expected session to end")
	}
}

func TestEndingBeforeAnyAnswerSkipsEvaluation(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, twoRequired())

	d := c.send("Thanks, but bye")
	if d.Kind != screening.DirectiveClose {
		t.Fatalf("expected close, got %q", d.Kind)
	}
	if _, ok := d.Verdict(); ok {
		t.Fatalf("expected neutral close")
	}
	if c.session.Evaluation != nil {
		t.Fatalf("expected no evaluation, got %+v", c.session.Evaluation)
	}
	if c.session.Stage != screening.StageClosing || !c.session.Ended {
		t.Fatalf("expected closed session, got %q", c.session.Stage)
	}
}

func TestSecondAnswerDoesNotOverwriteFirst(t *testing.T) {
	e, _ := newEngine(t, nil)
	questions := append(twoRequired(), screening.Question{ID: "relocation", Text: "Relocate?", Weight: 0.2, Required: true})

	s := screening.NewSession("s1", "job", screening.Candidate{}, questions)
	s.Stage = screening.StageKillerQuestions
	s.AppendMessage(screening.Message{Sender: screening.SenderInterviewer, Directive: screening.DirectiveGreet})
	s.MarkAsked("microservices")
	s.RecordAnswer("microservices", "docker")

	next, d, err := e.Step(context.Background(), s, "kubernetes actually")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := next.Answers["microservices"]; got != "docker" {
		t.Fatalf("expected first answer kept, got %q", got)
	}
	if d.Kind != screening.DirectiveAskQuestion || d.Question.ID != "availability" {
		t.Fatalf("expected next question, got %+v", d)
	}

	next, _, err = e.Step(context.Background(), next, "two weeks notice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := next.Answers["availability"]; got != "two weeks notice" {
		t.Fatalf("expected availability answer, got %q", got)
	}
	if got := next.Answers["microservices"]; got != "docker" {
		t.Fatalf("expected first answer kept, got %q", got)
	}
}

func TestNoQuestionAskedTwice(t *testing.T) {
	e, _ := newEngine(t, nil)
	questions := append(twoRequired(),
		screening.Question{ID: "optional", Text: "Anything else?", Weight: 0.1},
		screening.Question{ID: "cloud", Text: "Cloud?", ExpectedKeywords: []string{"gcp"}, Weight: 0.3, Required: true},
	)
	c := startConversation(t, e, questions)

	inputs := []string{"Hmm", "ok then", "docker", "soon", "nothing", "gcp", "what?", "again"}
	for _, in := range inputs {
		c.send(in)

		seen := map[string]bool{}
		for _, id := range c.session.Asked {
			if seen[id] {
				t.Fatalf("question %q asked twice: %v", id, c.session.Asked)
			}
			seen[id] = true
		}
	}

	if !c.session.Ended {
		t.Fatalf("expected conversation to reach closing, stage %q", c.session.Stage)
	}
	want := []string{"microservices", "availability", "optional", "cloud"}
	if !reflect.DeepEqual(c.session.Asked, want) {
		t.Fatalf("expected declaration order %v, got %v", want, c.session.Asked)
	}
}

func TestEndedSessionStaysClosed(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, twoRequired())
	c.send("bye")

	before := c.session.Clone()
	d := c.send("Wait, I have more questions about the company")

	if d.Kind != screening.DirectiveAlreadyClosed {
		t.Fatalf("expected already closed, got %q", d.Kind)
	}
	if !c.session.Ended || c.session.Stage != screening.StageClosing {
		t.Fatalf("expected session to stay closed")
	}
	if len(c.session.Messages) != len(before.Messages) {
		t.Fatalf("expected no transcript change, got %d entries", len(c.session.Messages))
	}
}

func TestTopicalQuestionIsNotSticky(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, twoRequired())

	d := c.send("What is the company culture like?")
	if d.Kind != screening.DirectiveAnswerTopic || d.Intent != screening.IntentAskCompany {
		t.Fatalf("expected company answer, got %+v", d)
	}
	if c.session.Stage != screening.StageCompanyQuestions {
		t.Fatalf("expected company_questions, got %q", c.session.Stage)
	}

	d = c.send("Hmm")
	if d.Kind != screening.DirectiveAskQuestion {
		t.Fatalf("expected routing to leave company_questions, got %q", d.Kind)
	}
	if c.session.Stage != screening.StageKillerQuestions {
		t.Fatalf("expected killer_questions, got %q", c.session.Stage)
	}
}

func TestProvideInfoUpdatesCandidate(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, twoRequired())

	d := c.send("I have 6 years with Python and Docker")
	if d.Kind != screening.DirectiveAcknowledgeInfo {
		t.Fatalf("expected acknowledgement, got %q", d.Kind)
	}
	if c.session.Candidate.YearsOfExperience == nil || *c.session.Candidate.YearsOfExperience != 6 {
		t.Fatalf("expected 6 years, got %v", c.session.Candidate.YearsOfExperience)
	}
	if !reflect.DeepEqual(c.session.Candidate.Skills, []string{"docker", "python"}) {
		t.Fatalf("unexpected skills %v", c.session.Candidate.Skills)
	}
	if c.session.LastIntent != screening.IntentProvideInfo {
		t.Fatalf("expected last intent provide_info, got %q", c.session.LastIntent)
	}
}

func TestQuestionThreshold(t *testing.T) {
	e := New(nil, nil, nil, Config{QuestionThreshold: 6})
	c := startConversation(t, e, twoRequired())

	if d := c.send("Hmm"); d.Kind != screening.DirectiveFollowUp {
		t.Fatalf("expected follow up at 2 entries, got %q", d.Kind)
	}
	if d := c.send("ok then"); d.Kind != screening.DirectiveFollowUp {
		t.Fatalf("expected follow up at 4 entries, got %q", d.Kind)
	}
	if d := c.send("right"); d.Kind != screening.DirectiveAskQuestion {
		t.Fatalf("expected question at 6 entries, got %q", d.Kind)
	}
}

func TestClassifierFailureFallsBackToGeneralInquiry(t *testing.T) {
	failing := intent.Func(func(context.Context, string, []screening.Message) (screening.Intent, error) {
		return "", context.DeadlineExceeded
	})
	e, logs := newEngine(t, failing)
	c := startConversation(t, e, twoRequired())

	d := c.send("bye")
	if d.Kind != screening.DirectiveFollowUp {
		t.Fatalf("expected follow up after fallback, got %q", d.Kind)
	}
	if c.session.LastIntent != screening.IntentGeneralInquiry {
		t.Fatalf("expected general inquiry, got %q", c.session.LastIntent)
	}

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].ContextMap()["session_id"] != "s1" {
		t.Fatalf("expected session id on warning, got %v", warnings[0].ContextMap())
	}
}

func TestUnknownIntentLabelFallsBack(t *testing.T) {
	weird := intent.Func(func(context.Context, string, []screening.Message) (screening.Intent, error) {
		return "smalltalk", nil
	})
	e, _ := newEngine(t, weird)
	c := startConversation(t, e, twoRequired())

	c.send("hello")
	if c.session.LastIntent != screening.IntentGeneralInquiry {
		t.Fatalf("expected general inquiry, got %q", c.session.LastIntent)
	}
}

func TestClassifierTimeoutIsApplied(t *testing.T) {
	var hadDeadline bool
	probe := intent.Func(func(ctx context.Context, _ string, _ []screening.Message) (screening.Intent, error) {
		_, hadDeadline = ctx.Deadline()
		return screening.IntentGeneralInquiry, nil
	})
	e := New(probe, nil, nil, Config{ClassifierTimeout: 5 * time.Second})
	c := startConversation(t, e, twoRequired())

	c.send("hello")
	if !hadDeadline {
		t.Fatalf("expected classifier context to carry a deadline")
	}
}

func TestPanicIsRecoveredWithApology(t *testing.T) {
	exploding := intent.Func(func(context.Context, string, []screening.Message) (screening.Intent, error) {
		panic("boom")
	})
	e, logs := newEngine(t, exploding)
	c := startConversation(t, e, twoRequired())
	before := c.session.Clone()

	res, err := e.ProcessTurn(context.Background(), c.session, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Directive.Kind != screening.DirectiveApology {
		t.Fatalf("expected apology, got %q", res.Directive.Kind)
	}
	if !errors.Is(res.Fault, screening.ErrInternalFault) {
		t.Fatalf("expected internal fault, got %v", res.Fault)
	}
	if !res.Session.NeedsHumanIntervention {
		t.Fatalf("expected human intervention flag")
	}
	if res.Session.Stage != before.Stage || len(res.Session.Messages) != len(before.Messages) {
		t.Fatalf("expected untouched state, got stage %q with %d messages", res.Session.Stage, len(res.Session.Messages))
	}
	if !reflect.DeepEqual(c.session, before) {
		t.Fatalf("input session was mutated")
	}
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Fatalf("expected fault to be logged")
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	e, _ := newEngine(t, nil)
	c := startConversation(t, e, twoRequired())
	c.send("Hmm")
	before := c.session.Clone()

	if _, _, err := e.Step(context.Background(), c.session, "ok then"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(c.session, before) {
		t.Fatalf("input session was mutated")
	}
}

func TestInvalidSessionIsRejected(t *testing.T) {
	e, _ := newEngine(t, nil)
	s := screening.NewSession("s1", "job", screening.Candidate{}, twoRequired())
	s.Asked = []string{"unknown"}

	_, _, err := e.Step(context.Background(), s, "hello")
	if !errors.Is(err, screening.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, _, err := e.Step(context.Background(), nil, "hello"); !errors.Is(err, screening.ErrValidation) {
		t.Fatalf("expected validation error for nil session, got %v", err)
	}
}
