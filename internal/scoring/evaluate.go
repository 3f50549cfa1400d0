package scoring

import (
	"fmt"
	"math"

	"github.com/spigell/hh-screener/internal/screening"
)

const (
	highThreshold   = 70.0
	mediumThreshold = 40.0
	strongRatio     = 0.5
)

// Canonical recommendations, one per suitability tier.
const (
	RecommendationHigh   = "Strong candidate. Recommend advancing to technical interview."
	RecommendationMedium = "Potential candidate. Consider for phone screen to clarify concerns."
	RecommendationLow    = "Not a strong match for this role at this time."
)

// Evaluate scores the answers against the question battery. It is pure: the
// same questions and answers always yield an identical result.
func Evaluate(questions []screening.Question, answers map[string]string) *screening.EvaluationResult {
	var (
		totalScore float64
		maxScore   float64
		answered   int
		strengths  = []string{}
		concerns   = []string{}
	)

	for _, q := range questions {
		maxScore += q.Weight

		answer, ok := answers[q.ID]
		if !ok {
			if q.Required {
				concerns = append(concerns, fmt.Sprintf("missing required answer to %s", q.ID))
			}
			continue
		}
		answered++

		ratio := ScoreAnswer(q, answer)
		totalScore += ratio * q.Weight

		switch {
		case ratio > strongRatio:
			strengths = append(strengths, fmt.Sprintf("strong answer to %s", q.ID))
		case ratio == 0 && q.Required:
			concerns = append(concerns, fmt.Sprintf("weak answer to required question %s", q.ID))
		}
	}

	// Tiers are picked from the unrounded score; only the reported value is rounded.
	raw := 0.0
	if maxScore > 0 {
		raw = totalScore / maxScore * 100
	}

	if answered < len(questions) {
		concerns = append(concerns, fmt.Sprintf("answered %d/%d questions", answered, len(questions)))
	}

	suitability := Suitability(raw)
	return &screening.EvaluationResult{
		OverallScore:   roundScore(raw),
		Suitability:    suitability,
		AnsweredCount:  answered,
		TotalCount:     len(questions),
		Strengths:      strengths,
		Concerns:       concerns,
		Recommendation: Recommendation(suitability),
	}
}

// Suitability maps an overall score to its tier.
func Suitability(score float64) screening.Suitability {
	switch {
	case score >= highThreshold:
		return screening.SuitabilityHigh
	case score >= mediumThreshold:
		return screening.SuitabilityMedium
	default:
		return screening.SuitabilityLow
	}
}

// Recommendation returns the canonical recommendation for a tier.
func Recommendation(s screening.Suitability) string {
	switch s {
	case screening.SuitabilityHigh:
		return RecommendationHigh
	case screening.SuitabilityMedium:
		return RecommendationMedium
	default:
		return RecommendationLow
	}
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
