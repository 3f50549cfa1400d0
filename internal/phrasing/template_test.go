package phrasing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/hh-screener/internal/screening"
)

func fixtures() (*screening.JobProfile, *screening.CompanyFacts) {
	job := &screening.JobProfile{
		ID:           "senior_python_dev",
		Title:        "Senior Python Developer",
		Description:  "Build scalable services.",
		Requirements: []string{"Python", "Docker", "Cloud", "SQL"},
		SalaryRange:  "$120,000 - $160,000 USD + equity",
		Location:     "Remote (US/Europe)",
		RemotePolicy: "Remote-first with optional office access",
		TeamSize:     8,
	}
	company := &screening.CompanyFacts{
		ID:       "tech_innovators",
		Name:     "Tech Innovators Inc.",
		Mission:  "Transform businesses through AI",
		Culture:  "We foster innovation.",
		Benefits: []string{"a", "b", "c", "d", "e", "f"},
		Size:     "150-200 employees",
		Industry: "Technology",
	}
	return job, company
}

func render(t *testing.T, req Request) string {
	t.Helper()
	text, err := MustTemplate().Render(context.Background(), req)
	require.NoError(t, err)
	return text
}

func TestRenderGreeting(t *testing.T) {
	job, company := fixtures()

	text := render(t, Request{Directive: screening.Directive{Kind: screening.DirectiveGreet}, Job: job, Company: company})
	assert.Equal(t, "Hi! I'm an AI Recruiter from Tech Innovators Inc. I'm reaching out about our Senior Python Developer position. Do you have a few minutes to chat about this opportunity?", text)

	text = render(t, Request{Directive: screening.Directive{Kind: screening.DirectiveGreet}})
	assert.Contains(t, text, "from our company")
	assert.Contains(t, text, "our open position")
}

func TestRenderQuestionVerbatim(t *testing.T) {
	q := &screening.Question{ID: "availability", Text: "When would you be available to start?"}

	text := render(t, Request{Directive: screening.Directive{Kind: screening.DirectiveAskQuestion, Question: q}})
	assert.Equal(t, q.Text, text)

	_, err := MustTemplate().Render(context.Background(), Request{Directive: screening.Directive{Kind: screening.DirectiveAskQuestion}})
	assert.Error(t, err)
}

func TestRenderTopics(t *testing.T) {
	job, company := fixtures()
	topic := func(i screening.Intent) Request {
		return Request{
			Directive: screening.Directive{Kind: screening.DirectiveAnswerTopic, Intent: i},
			Job:       job,
			Company:   company,
		}
	}

	text := render(t, topic(screening.IntentAskCompany))
	assert.Contains(t, text, "Tech Innovators Inc. works in Technology and has 150-200 employees.")
	assert.Contains(t, text, "Our mission is to transform businesses through AI.")
	assert.Contains(t, text, "Benefits include: a, b, c, d, e.")
	assert.NotContains(t, text, "f.")

	text = render(t, topic(screening.IntentAskJob))
	assert.Contains(t, text, "Key requirements: Python, Docker, Cloud.")
	assert.Contains(t, text, "$120,000 - $160,000 USD + equity")

	text = render(t, topic(screening.IntentAskTeam))
	assert.Contains(t, text, "team of 8 engineers")

	text = render(t, topic(screening.IntentAskLocation))
	assert.Equal(t, "Location: Remote (US/Europe). Remote-first with optional office access.", text)
}

func TestRenderTopicWithoutContent(t *testing.T) {
	for _, i := range []screening.Intent{screening.IntentAskCompany, screening.IntentAskJob, screening.IntentAskTeam, screening.IntentAskLocation} {
		text := render(t, Request{Directive: screening.Directive{Kind: screening.DirectiveAnswerTopic, Intent: i}})
		assert.True(t, strings.HasPrefix(text, "Great question!"), "intent %s: %q", i, text)
	}
}

func TestRenderClosingByVerdict(t *testing.T) {
	closing := func(s screening.Suitability) Request {
		return Request{Directive: screening.Directive{
			Kind:       screening.DirectiveClose,
			Evaluation: &screening.EvaluationResult{Suitability: s},
		}}
	}

	assert.Contains(t, render(t, closing(screening.SuitabilityHigh)), "great fit for this role")
	assert.Contains(t, render(t, closing(screening.SuitabilityMedium)), "quick follow-up call")
	assert.Contains(t, render(t, closing(screening.SuitabilityLow)), "keep your information on file")
	assert.Equal(t,
		"Thank you for your time today! We'll be in touch soon with next steps.",
		render(t, Request{Directive: screening.Directive{Kind: screening.DirectiveClose}}),
	)
}

func TestRenderFixedTexts(t *testing.T) {
	assert.Equal(t, AlreadyClosedText, render(t, Request{Directive: screening.Directive{Kind: screening.DirectiveAlreadyClosed}}))
	assert.Equal(t, ApologyText, render(t, Request{Directive: screening.Directive{Kind: screening.DirectiveApology}}))
}

func TestRenderAcknowledgement(t *testing.T) {
	text := render(t, Request{
		Directive: screening.Directive{Kind: screening.DirectiveAcknowledgeInfo},
		Candidate: screening.Candidate{Skills: []string{"docker", "go", "python", "sql"}},
	})
	assert.Equal(t, "Thanks for sharing that! Your background with docker, go, python sounds relevant to this role. Could you tell me more about your experience?", text)

	text = render(t, Request{Directive: screening.Directive{Kind: screening.DirectiveAcknowledgeInfo}})
	assert.Equal(t, "Thanks for sharing that! Could you tell me more about your experience?", text)
}

func TestRenderUnknownDirective(t *testing.T) {
	_, err := MustTemplate().Render(context.Background(), Request{Directive: screening.Directive{Kind: "dance"}})
	assert.Error(t, err)
}
