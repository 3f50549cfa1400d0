package screening

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateQuestions checks a job's question battery: every question must
// pass field validation and ids must be unique.
func ValidateQuestions(questions []Question) error {
	var problems []string
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		problems = append(problems, structProblems(fmt.Sprintf("questions[%d]", i), q)...)
		if q.ID == "" {
			continue
		}
		if _, ok := seen[q.ID]; ok {
			problems = append(problems, fmt.Sprintf("questions[%d]: duplicate id %q", i, q.ID))
		}
		seen[q.ID] = struct{}{}
	}
	if len(problems) > 0 {
		return &ValidationError{Entity: "questions", Problems: problems}
	}
	return nil
}

// Validate checks a job profile and its questions.
func (j *JobProfile) Validate() error {
	problems := structProblems("job", j)
	if err := ValidateQuestions(j.Questions); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			problems = append(problems, verr.Problems...)
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Entity: "job " + j.ID, Problems: dedupe(problems)}
	}
	return nil
}

// Validate checks company facts.
func (c *CompanyFacts) Validate() error {
	if problems := structProblems("company", c); len(problems) > 0 {
		return &ValidationError{Entity: "company " + c.ID, Problems: problems}
	}
	return nil
}

// Validate checks the structural invariants of a session.
func (s *Session) Validate() error {
	var problems []string
	if strings.TrimSpace(s.ID) == "" {
		problems = append(problems, "session id is required")
	}
	if !s.Stage.Valid() {
		problems = append(problems, fmt.Sprintf("unknown stage %q", s.Stage))
	}
	if err := ValidateQuestions(s.Questions); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			problems = append(problems, verr.Problems...)
		}
	}

	askedSeen := make(map[string]struct{}, len(s.Asked))
	for _, id := range s.Asked {
		if _, ok := askedSeen[id]; ok {
			problems = append(problems, fmt.Sprintf("question %q asked twice", id))
		}
		askedSeen[id] = struct{}{}
		if _, ok := s.Question(id); !ok {
			problems = append(problems, fmt.Sprintf("asked question %q is not part of the job", id))
		}
	}
	for id := range s.Answers {
		if _, ok := askedSeen[id]; !ok {
			problems = append(problems, fmt.Sprintf("answer recorded for unasked question %q", id))
		}
	}

	if s.Evaluation != nil && s.Stage != StageEvaluation && s.Stage != StageClosing {
		problems = append(problems, fmt.Sprintf("evaluation present in stage %q", s.Stage))
	}
	if s.Ended && s.Stage != StageClosing {
		problems = append(problems, fmt.Sprintf("ended session in stage %q", s.Stage))
	}

	if len(problems) > 0 {
		return &ValidationError{Entity: "session " + s.ID, Problems: problems}
	}
	return nil
}

func structProblems(prefix string, v any) []string {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{fmt.Sprintf("%s: %v", prefix, err)}
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s: %s failed on %q", prefix, fe.Namespace(), fe.Tag()))
	}
	return problems
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
