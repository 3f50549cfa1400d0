package interview

import "github.com/spigell/hh-screener/internal/screening"

// Summary is the externally visible state of a session.
type Summary struct {
	SessionID              string                      `json:"session_id"`
	JobID                  string                      `json:"job_id"`
	CompanyID              string                      `json:"company_id,omitempty"`
	Stage                  screening.Stage             `json:"stage"`
	MessageCount           int                         `json:"message_count"`
	QuestionsAsked         int                         `json:"questions_asked"`
	QuestionsTotal         int                         `json:"questions_total"`
	Ended                  bool                        `json:"conversation_ended"`
	NeedsHumanIntervention bool                        `json:"needs_human_intervention"`
	Evaluation             *screening.EvaluationResult `json:"evaluation,omitempty"`
	Candidate              screening.Candidate         `json:"candidate"`
	Messages               []screening.Message         `json:"messages"`
}

func summarize(s *screening.Session) *Summary {
	return &Summary{
		SessionID:              s.ID,
		JobID:                  s.JobID,
		CompanyID:              s.CompanyID,
		Stage:                  s.Stage,
		MessageCount:           len(s.Messages),
		QuestionsAsked:         len(s.Asked),
		QuestionsTotal:         len(s.Questions),
		Ended:                  s.Ended,
		NeedsHumanIntervention: s.NeedsHumanIntervention,
		Evaluation:             s.Evaluation,
		Candidate:              s.Candidate,
		Messages:               s.Messages,
	}
}
