// Package screening holds the entities shared by the screening engine:
// the conversation session, the job content it is screened against and the
// evaluation it produces.
package screening

// Stage is the current phase of a screening conversation.
type Stage string

const (
	StageGreeting             Stage = "greeting"
	StageInformationGathering Stage = "information_gathering"
	StageKillerQuestions      Stage = "killer_questions"
	StageCompanyQuestions     Stage = "company_questions"
	StageEvaluation           Stage = "evaluation"
	StageClosing              Stage = "closing"
)

var stages = []Stage{
	StageGreeting,
	StageInformationGathering,
	StageKillerQuestions,
	StageCompanyQuestions,
	StageEvaluation,
	StageClosing,
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	for _, known := range stages {
		if s == known {
			return true
		}
	}
	return false
}

// Intent is a symbolic label for the purpose of one inbound message.
type Intent string

const (
	IntentEndConversation   Intent = "end_conversation"
	IntentAskCompany        Intent = "ask_company"
	IntentAskJob            Intent = "ask_job"
	IntentAskTeam           Intent = "ask_team"
	IntentAskLocation       Intent = "ask_location"
	IntentProvideInfo       Intent = "provide_info"
	IntentAnswerAffirmative Intent = "answer_affirmative"
	IntentGeneralInquiry    Intent = "general_inquiry"
)

// Intents lists every intent in classification priority order, with the
// catch-all last.
var Intents = []Intent{
	IntentEndConversation,
	IntentAskCompany,
	IntentAskJob,
	IntentAskTeam,
	IntentAskLocation,
	IntentProvideInfo,
	IntentAnswerAffirmative,
	IntentGeneralInquiry,
}

// ParseIntent maps a label to a known intent.
func ParseIntent(label string) (Intent, bool) {
	for _, known := range Intents {
		if Intent(label) == known {
			return known, true
		}
	}
	return "", false
}

// IsTopical reports whether the intent is a question about the company or the role.
func (i Intent) IsTopical() bool {
	switch i {
	case IntentAskCompany, IntentAskJob, IntentAskTeam, IntentAskLocation:
		return true
	default:
		return false
	}
}

// Suitability is the categorical outcome of an evaluation.
type Suitability string

const (
	SuitabilityLow    Suitability = "low"
	SuitabilityMedium Suitability = "medium"
	SuitabilityHigh   Suitability = "high"
)

// Sender identifies the author of a transcript entry.
type Sender string

const (
	SenderCandidate   Sender = "candidate"
	SenderInterviewer Sender = "interviewer"
)

// Platform is the messaging platform a candidate was reached on.
type Platform string

const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformUnipile  Platform = "unipile"
)
