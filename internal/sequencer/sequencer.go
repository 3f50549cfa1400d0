// Package sequencer decides which killer question comes next.
//
// Questions are always taken in the order the content repository returned
// them. A question counts as asked the moment it is selected, before any
// answer exists, so the set of unasked questions strictly shrinks.
package sequencer

import "github.com/spigell/hh-screener/internal/screening"

// Next selects the first unasked question and marks it asked. It returns
// false when every question has been asked.
func Next(s *screening.Session) (*screening.Question, bool) {
	for i := range s.Questions {
		q := &s.Questions[i]
		if s.WasAsked(q.ID) {
			continue
		}
		s.MarkAsked(q.ID)
		selected := *q
		return &selected, true
	}
	return nil, false
}

// Remaining returns the required questions that have not been asked yet.
func Remaining(s *screening.Session) []screening.Question {
	var remaining []screening.Question
	for _, q := range s.Questions {
		if q.Required && !s.WasAsked(q.ID) {
			remaining = append(remaining, q)
		}
	}
	return remaining
}

// Pending returns the id of the most recently asked question that has no
// answer yet.
func Pending(s *screening.Session) (string, bool) {
	for i := len(s.Asked) - 1; i >= 0; i-- {
		id := s.Asked[i]
		if !s.IsAnswered(id) {
			return id, true
		}
	}
	return "", false
}

// AnyAsked reports whether at least one question was presented.
func AnyAsked(s *screening.Session) bool {
	return len(s.Asked) > 0
}
