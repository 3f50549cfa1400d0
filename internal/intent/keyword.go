package intent

import (
	"context"
	"strings"

	"github.com/spigell/hh-screener/internal/screening"
)

// DefaultKeywords are the keyword sets used by the default classifier.
var DefaultKeywords = map[screening.Intent][]string{
	screening.IntentEndConversation:   {"goodbye", "bye", "thank you", "thanks", "not interested"},
	screening.IntentAskCompany:        {"company", "culture", "mission", "values", "benefits", "perks"},
	screening.IntentAskJob:            {"job", "role", "position", "responsibilities", "requirements", "salary"},
	screening.IntentAskTeam:           {"team", "colleagues", "manager", "working with"},
	screening.IntentAskLocation:       {"location", "remote", "office", "where", "timezone"},
	screening.IntentProvideInfo:       {"i am", "i have", "i work", "my experience", "i've been"},
	screening.IntentAnswerAffirmative: {"yes", "no", "sure", "absolutely", "correct"},
}

// priority is the fixed evaluation order; earlier categories win ties.
var priority = []screening.Intent{
	screening.IntentEndConversation,
	screening.IntentAskCompany,
	screening.IntentAskJob,
	screening.IntentAskTeam,
	screening.IntentAskLocation,
	screening.IntentProvideInfo,
	screening.IntentAnswerAffirmative,
}

// Keyword is the default classifier: the first category in priority order
// with at least one keyword found in the text wins. It never fails.
type Keyword struct {
	keywords map[screening.Intent][]string
}

// NewKeyword builds a keyword classifier. Categories missing from overrides
// keep their default keyword sets.
func NewKeyword(overrides map[screening.Intent][]string) *Keyword {
	keywords := make(map[screening.Intent][]string, len(priority))
	for _, category := range priority {
		set := DefaultKeywords[category]
		if custom, ok := overrides[category]; ok && len(custom) > 0 {
			set = custom
		}
		normalized := make([]string, 0, len(set))
		for _, kw := range set {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				normalized = append(normalized, kw)
			}
		}
		keywords[category] = normalized
	}
	return &Keyword{keywords: keywords}
}

// Match classifies text without a context.
func (k *Keyword) Match(text string) screening.Intent {
	lower := strings.ToLower(text)
	for _, category := range priority {
		for _, kw := range k.keywords[category] {
			if strings.Contains(lower, kw) {
				return category
			}
		}
	}
	return screening.IntentGeneralInquiry
}

func (k *Keyword) Classify(_ context.Context, text string, _ []screening.Message) (screening.Intent, error) {
	return k.Match(text), nil
}
