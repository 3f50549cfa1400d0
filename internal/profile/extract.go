// Package profile extracts candidate facts from free-text messages.
package profile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/hh-screener/internal/screening"
)

var yearsPattern = regexp.MustCompile(`(\d+)\s*(?:years?|yrs?)\b`)

// DefaultSkills is the vocabulary recognized in candidate messages.
var DefaultSkills = []string{
	"python", "java", "javascript", "typescript", "go", "rust",
	"react", "vue", "angular", "django", "flask", "fastapi",
	"docker", "kubernetes", "aws", "gcp", "azure",
	"sql", "postgresql", "mongodb", "redis",
	"machine learning", "ai", "ml", "nlp", "computer vision",
}

// Facts are the candidate details found in one message.
type Facts struct {
	YearsOfExperience *int
	Skills            []string
}

// Empty reports whether nothing was found.
func (f Facts) Empty() bool {
	return f.YearsOfExperience == nil && len(f.Skills) == 0
}

// Extractor finds facts using a fixed skill vocabulary. Skills match on word
// boundaries so that short names like "go" do not match inside other words.
type Extractor struct {
	skills []skillPattern
}

type skillPattern struct {
	name string
	re   *regexp.Regexp
}

// NewExtractor builds an extractor for the given vocabulary, or
// DefaultSkills when none is given.
func NewExtractor(vocabulary []string) *Extractor {
	if len(vocabulary) == 0 {
		vocabulary = DefaultSkills
	}
	e := &Extractor{skills: make([]skillPattern, 0, len(vocabulary))}
	for _, skill := range vocabulary {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		e.skills = append(e.skills, skillPattern{
			name: skill,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`),
		})
	}
	return e
}

// Extract returns the facts mentioned in text.
func (e *Extractor) Extract(text string) Facts {
	lower := strings.ToLower(text)

	var facts Facts
	if m := yearsPattern.FindStringSubmatch(lower); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			facts.YearsOfExperience = &years
		}
	}
	for _, skill := range e.skills {
		if skill.re.MatchString(lower) {
			facts.Skills = append(facts.Skills, skill.name)
		}
	}
	return facts
}

// Merge applies facts to the candidate. Years are replaced by the latest
// mention; skills accumulate as a set.
func Merge(c *screening.Candidate, facts Facts) {
	if facts.YearsOfExperience != nil {
		years := *facts.YearsOfExperience
		c.YearsOfExperience = &years
	}
	if len(facts.Skills) > 0 {
		c.AddSkills(facts.Skills...)
	}
}
