// Package scoring turns recorded answers into a suitability evaluation.
package scoring

import (
	"strings"

	"github.com/spigell/hh-screener/internal/screening"
)

// MatchedKeywords returns the expected keywords found in the answer,
// compared case-insensitively as substrings.
func MatchedKeywords(q screening.Question, answer string) []string {
	answer = strings.ToLower(answer)
	matched := make([]string, 0, len(q.ExpectedKeywords))
	for _, keyword := range q.ExpectedKeywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(answer, strings.ToLower(keyword)) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

// ScoreAnswer returns the share of expected keywords present in the answer,
// in [0,1]. A question without keywords always scores 0.
func ScoreAnswer(q screening.Question, answer string) float64 {
	if len(q.ExpectedKeywords) == 0 {
		return 0
	}
	return float64(len(MatchedKeywords(q, answer))) / float64(len(q.ExpectedKeywords))
}
