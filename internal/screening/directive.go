package screening

// DirectiveKind names what the interviewer should communicate next.
type DirectiveKind string

const (
	DirectiveGreet           DirectiveKind = "greet"
	DirectiveAlreadyClosed   DirectiveKind = "already_closed"
	DirectiveAskQuestion     DirectiveKind = "ask_question"
	DirectiveAnswerTopic     DirectiveKind = "answer_topic"
	DirectiveAcknowledgeInfo DirectiveKind = "acknowledge_info"
	DirectiveFollowUp        DirectiveKind = "follow_up"
	DirectiveClose           DirectiveKind = "close"
	DirectiveApology         DirectiveKind = "apology"
)

// Directive is the single outbound action produced for one inbound message.
// It says what to communicate, never how to word it.
type Directive struct {
	Kind DirectiveKind `json:"kind"`

	// Question is set for DirectiveAskQuestion.
	Question *Question `json:"question,omitempty"`
	// Intent is set for DirectiveAnswerTopic.
	Intent Intent `json:"intent,omitempty"`
	// Evaluation is set for DirectiveClose when scoring ran.
	Evaluation *EvaluationResult `json:"evaluation,omitempty"`
}

// Verdict returns the suitability carried by a closing directive, if any.
func (d Directive) Verdict() (Suitability, bool) {
	if d.Evaluation == nil {
		return "", false
	}
	return d.Evaluation.Suitability, true
}

// Ends reports whether the directive finishes the conversation.
func (d Directive) Ends() bool {
	return d.Kind == DirectiveClose || d.Kind == DirectiveAlreadyClosed
}
