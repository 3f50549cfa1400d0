package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/phrasing"
	"github.com/spigell/hh-screener/internal/screening"
)

type stubGenerator struct {
	response    string
	err         error
	calls       int
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestPhraserAsksQuestion(t *testing.T) {
	stub := &stubGenerator{response: `"So, when could you start?"`}
	p := NewPhraser(stub, phrasing.MustTemplate(), zap.NewNop(), 0)

	req := phrasing.Request{
		Directive: screening.Directive{
			Kind:     screening.DirectiveAskQuestion,
			Question: &screening.Question{ID: "availability", Text: "When would you be available to start?"},
		},
		Job: &screening.JobProfile{ID: "j", Title: "Go Developer", Questions: []screening.Question{{ID: "secret", Text: "hidden battery"}}},
		History: []screening.Message{
			{Sender: screening.SenderInterviewer, Text: "Hi!"},
			{Sender: screening.SenderCandidate, Text: "Hello"},
		},
	}

	text, err := p.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "So, when could you start?" {
		t.Fatalf("unexpected text %q", text)
	}
	if stub.lastSystem != phrasePrompt {
		t.Fatalf("expected phrasing system prompt")
	}
	if !strings.Contains(stub.lastMessage, "Ask this screening question: When would you be available to start?") {
		t.Fatalf("instruction missing from message: %s", stub.lastMessage)
	}
	if n := strings.Count(stub.lastMessage, "candidate: Hello"); n != 1 {
		t.Fatalf("expected the latest candidate message once, got %d in: %s", n, stub.lastMessage)
	}
	if strings.Contains(stub.lastMessage, "hidden battery") {
		t.Fatalf("question battery must not be sent to the model")
	}
}

func TestPhraserSendsLatestMessageOnce(t *testing.T) {
	stub := &stubGenerator{response: "The range is 150-200k."}
	p := NewPhraser(stub, phrasing.MustTemplate(), zap.NewNop(), 0)

	// The engine appends the candidate message and an interviewer entry
	// without text before the reply is rendered.
	req := phrasing.Request{
		Directive: screening.Directive{Kind: screening.DirectiveAnswerTopic, Intent: screening.IntentAskJob},
		History: []screening.Message{
			{Sender: screening.SenderInterviewer, Text: "Hi!", Directive: screening.DirectiveGreet},
			{Sender: screening.SenderCandidate, Text: "What is the salary?"},
			{Sender: screening.SenderInterviewer, Directive: screening.DirectiveAnswerTopic},
		},
	}

	if _, err := p.Render(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(stub.lastMessage, "What is the salary?"); n != 1 {
		t.Fatalf("expected the latest candidate message once, got %d in: %s", n, stub.lastMessage)
	}
	if !strings.HasSuffix(stub.lastMessage, "candidate: What is the salary?") {
		t.Fatalf("expected the transcript to end with the candidate message: %s", stub.lastMessage)
	}
}

func TestPhraserUsesFallbackForFixedTexts(t *testing.T) {
	stub := &stubGenerator{response: "should not be used"}
	p := NewPhraser(stub, phrasing.MustTemplate(), zap.NewNop(), 0)

	text, err := p.Render(context.Background(), phrasing.Request{Directive: screening.Directive{Kind: screening.DirectiveApology}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != phrasing.ApologyText {
		t.Fatalf("unexpected text %q", text)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no model call, got %d", stub.calls)
	}
}

func TestPhraserPropagatesErrors(t *testing.T) {
	stub := &stubGenerator{err: errors.New("unavailable")}
	p := NewPhraser(stub, phrasing.MustTemplate(), zap.NewNop(), 0)

	_, err := p.Render(context.Background(), phrasing.Request{Directive: screening.Directive{Kind: screening.DirectiveFollowUp}})
	if err == nil {
		t.Fatal("expected error")
	}

	stub = &stubGenerator{response: "   "}
	p = NewPhraser(stub, phrasing.MustTemplate(), zap.NewNop(), 0)
	if _, err := p.Render(context.Background(), phrasing.Request{Directive: screening.Directive{Kind: screening.DirectiveFollowUp}}); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestInstructionForClosing(t *testing.T) {
	tests := []struct {
		name string
		d    screening.Directive
		want string
	}{
		{name: "neutral", d: screening.Directive{Kind: screening.DirectiveClose}, want: "in touch with next steps"},
		{name: "high", d: screening.Directive{Kind: screening.DirectiveClose, Evaluation: &screening.EvaluationResult{Suitability: screening.SuitabilityHigh}}, want: "great fit"},
		{name: "medium", d: screening.Directive{Kind: screening.DirectiveClose, Evaluation: &screening.EvaluationResult{Suitability: screening.SuitabilityMedium}}, want: "follow-up call"},
		{name: "low", d: screening.Directive{Kind: screening.DirectiveClose, Evaluation: &screening.EvaluationResult{Suitability: screening.SuitabilityLow}}, want: "on file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := instructionFor(tt.d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Fatalf("expected %q in %q", tt.want, got)
			}
		})
	}

	if _, err := instructionFor(screening.Directive{Kind: "dance"}); err == nil {
		t.Fatal("expected error for unknown directive")
	}
}

func TestFormatHistoryWindow(t *testing.T) {
	var history []screening.Message
	for i := 0; i < 15; i++ {
		history = append(history, screening.Message{Sender: screening.SenderCandidate, Text: strings.Repeat("x", i+1)})
	}

	lines := strings.Split(formatHistory(history, 10), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if lines[0] != "candidate: "+strings.Repeat("x", 6) {
		t.Fatalf("unexpected first line %q", lines[0])
	}

	if got := formatHistory(nil, 10); got != "(no previous messages)" {
		t.Fatalf("unexpected empty history %q", got)
	}
}
