package screening

import (
	"sort"
	"strings"
	"time"
)

// Candidate accumulates facts about the person being screened.
type Candidate struct {
	ID                string   `json:"id"`
	Name              string   `json:"name,omitempty"`
	CurrentRole       string   `json:"current_role,omitempty"`
	Location          string   `json:"location,omitempty"`
	Platform          Platform `json:"platform,omitempty"`
	YearsOfExperience *int     `json:"years_of_experience,omitempty"`
	Skills            []string `json:"skills,omitempty"`
}

// AddSkills merges skills into the candidate's skill set. Skills are
// compared case-insensitively and kept sorted.
func (c *Candidate) AddSkills(skills ...string) {
	seen := make(map[string]struct{}, len(c.Skills)+len(skills))
	merged := make([]string, 0, len(c.Skills)+len(skills))
	for _, skill := range append(append([]string(nil), c.Skills...), skills...) {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		merged = append(merged, skill)
	}
	sort.Strings(merged)
	c.Skills = merged
}

// Message is one transcript entry.
type Message struct {
	Sender    Sender        `json:"sender"`
	Text      string        `json:"text,omitempty"`
	Directive DirectiveKind `json:"directive,omitempty"`
	At        time.Time     `json:"at"`
}

// Session is the state of one screening conversation. The orchestrator owns
// it for the duration of a turn; between turns it lives in a session store.
type Session struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	CompanyID string `json:"company_id,omitempty"`

	Stage     Stage     `json:"stage"`
	Candidate Candidate `json:"candidate"`

	Questions []Question        `json:"questions"`
	Asked     []string          `json:"asked"`
	Answers   map[string]string `json:"answers"`

	Evaluation *EvaluationResult `json:"evaluation,omitempty"`

	Ended                  bool   `json:"ended"`
	NeedsHumanIntervention bool   `json:"needs_human_intervention"`
	LastIntent             Intent `json:"last_intent,omitempty"`

	Messages []Message         `json:"messages"`
	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session in the greeting stage with empty collections.
// The questions are copied and never reordered afterwards.
func NewSession(id, jobID string, candidate Candidate, questions []Question) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		JobID:     jobID,
		Stage:     StageGreeting,
		Candidate: candidate,
		Questions: cloneQuestions(questions),
		Asked:     []string{},
		Answers:   map[string]string{},
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Candidate.Skills = append([]string(nil), s.Candidate.Skills...)
	if s.Candidate.YearsOfExperience != nil {
		years := *s.Candidate.YearsOfExperience
		c.Candidate.YearsOfExperience = &years
	}
	c.Questions = cloneQuestions(s.Questions)
	c.Asked = append([]string{}, s.Asked...)
	c.Answers = make(map[string]string, len(s.Answers))
	for id, answer := range s.Answers {
		c.Answers[id] = answer
	}
	c.Evaluation = s.Evaluation.clone()
	c.Messages = append([]Message{}, s.Messages...)
	if s.Metadata != nil {
		c.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// Question returns the question with the given id.
func (s *Session) Question(id string) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

// WasAsked reports whether the question id was presented to the candidate.
func (s *Session) WasAsked(id string) bool {
	for _, asked := range s.Asked {
		if asked == id {
			return true
		}
	}
	return false
}

// IsAnswered reports whether an answer was recorded for the question id.
func (s *Session) IsAnswered(id string) bool {
	_, ok := s.Answers[id]
	return ok
}

// RecordAnswer stores the answer for a question unless one is already
// recorded. It reports whether the answer was stored.
func (s *Session) RecordAnswer(id, text string) bool {
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	if _, ok := s.Answers[id]; ok {
		return false
	}
	s.Answers[id] = text
	return true
}

// MarkAsked appends the question id to the asked list. Ids already asked are ignored.
func (s *Session) MarkAsked(id string) bool {
	if s.WasAsked(id) {
		return false
	}
	s.Asked = append(s.Asked, id)
	return true
}

// End closes the conversation. A closed session never reopens.
func (s *Session) End() {
	s.Ended = true
	s.Stage = StageClosing
}

// SetEvaluation stores the evaluation if none is present yet.
func (s *Session) SetEvaluation(result *EvaluationResult) bool {
	if s.Evaluation != nil || result == nil {
		return false
	}
	s.Evaluation = result
	return true
}

// AppendMessage adds a transcript entry.
func (s *Session) AppendMessage(m Message) {
	if m.At.IsZero() {
		m.At = time.Now().UTC()
	}
	s.Messages = append(s.Messages, m)
}

// AttachReplyText sets the rendered text on the latest interviewer entry
// that has none yet.
func (s *Session) AttachReplyText(text string) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Sender != SenderInterviewer {
			continue
		}
		if s.Messages[i].Text == "" {
			s.Messages[i].Text = text
		}
		return
	}
}

// History returns the last n transcript entries.
func (s *Session) History(n int) []Message {
	if n <= 0 || n >= len(s.Messages) {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
