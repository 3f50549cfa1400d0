package screening

// Question is a qualifying question asked during the killer questions stage.
type Question struct {
	ID               string   `json:"id" mapstructure:"id" validate:"required"`
	Text             string   `json:"text" mapstructure:"text" validate:"required"`
	ExpectedKeywords []string `json:"expected_keywords,omitempty" mapstructure:"expected-keywords" validate:"dive,required"`
	Weight           float64  `json:"weight" mapstructure:"weight" validate:"gt=0,lte=1"`
	Required         bool     `json:"required" mapstructure:"required"`
}

// JobProfile describes the position a candidate is screened for.
type JobProfile struct {
	ID           string   `json:"id" mapstructure:"id" validate:"required"`
	CompanyID    string   `json:"company_id,omitempty" mapstructure:"company-id"`
	Title        string   `json:"title" mapstructure:"title" validate:"required"`
	Description  string   `json:"description,omitempty" mapstructure:"description"`
	Requirements []string `json:"requirements,omitempty" mapstructure:"requirements"`
	NiceToHave   []string `json:"nice_to_have,omitempty" mapstructure:"nice-to-have"`
	SalaryRange  string   `json:"salary_range,omitempty" mapstructure:"salary-range"`
	Location     string   `json:"location,omitempty" mapstructure:"location"`
	RemotePolicy string   `json:"remote_policy,omitempty" mapstructure:"remote-policy"`
	TeamSize     int      `json:"team_size,omitempty" mapstructure:"team-size" validate:"gte=0"`

	Questions []Question `json:"questions,omitempty" mapstructure:"questions"`
}

// CompanyFacts is the company information a candidate may ask about.
type CompanyFacts struct {
	ID       string   `json:"id" mapstructure:"id" validate:"required"`
	Name     string   `json:"name" mapstructure:"name" validate:"required"`
	Mission  string   `json:"mission,omitempty" mapstructure:"mission"`
	Culture  string   `json:"culture,omitempty" mapstructure:"culture"`
	Benefits []string `json:"benefits,omitempty" mapstructure:"benefits"`
	Size     string   `json:"size,omitempty" mapstructure:"size"`
	Industry string   `json:"industry,omitempty" mapstructure:"industry"`
	Website  string   `json:"website,omitempty" mapstructure:"website" validate:"omitempty,url"`
}

// EvaluationResult is the outcome of scoring a candidate's answers. It is
// created once and never mutated afterwards.
type EvaluationResult struct {
	OverallScore   float64     `json:"overall_score"`
	Suitability    Suitability `json:"suitability"`
	AnsweredCount  int         `json:"answered_count"`
	TotalCount     int         `json:"total_count"`
	Strengths      []string    `json:"strengths"`
	Concerns       []string    `json:"concerns"`
	Recommendation string      `json:"recommendation"`
}

func (e *EvaluationResult) clone() *EvaluationResult {
	if e == nil {
		return nil
	}
	c := *e
	c.Strengths = append([]string(nil), e.Strengths...)
	c.Concerns = append([]string(nil), e.Concerns...)
	return &c
}

func cloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
		out[i] = q
	}
	return out
}
