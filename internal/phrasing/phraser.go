// Package phrasing turns directives into the text sent to the candidate.
package phrasing

import (
	"context"

	"github.com/spigell/hh-screener/internal/screening"
)

// Request carries a directive and the context needed to word it.
type Request struct {
	Directive screening.Directive
	Job       *screening.JobProfile
	Company   *screening.CompanyFacts
	Candidate screening.Candidate
	// History is the transcript so far, ending with the candidate message
	// the directive answers, if any.
	History   []screening.Message
}

// Phraser renders a directive. The output is opaque to the engine.
type Phraser interface {
	Render(ctx context.Context, req Request) (string, error)
}

// Fixed wording for directives that must never depend on a remote service.
const (
	AlreadyClosedText = "This conversation has already ended. Please start a new conversation."
	ApologyText       = "I apologize, but I'm having some technical difficulties. A human recruiter will reach out to you shortly."
)
