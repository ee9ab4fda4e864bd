package domain

// Mode is the active dialog flow of a session.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeGpt     Mode = "gpt"
	ModeDate    Mode = "date"
	ModeMessage Mode = "message"
	ModeProfile Mode = "profile"
	ModeOpener  Mode = "opener"
)

// Dialog is the per-mode state of a session.
// Each variant carries only the fields its mode needs, so a step counter
// cannot exist outside an interview and a transcript cannot exist outside Message mode.
type Dialog interface {
	Mode() Mode
	dialog()
}

// IdleDialog is the initial state and the state after /start.
type IdleDialog struct{}

// GptDialog forwards every free-text message as a fresh single-shot exchange.
type GptDialog struct{}

// DateDialog role-plays a persona chosen by button press.
type DateDialog struct {
	// Persona is the asset key of the chosen persona, empty until a button is pressed.
	Persona string
}

// MessageDialog collects pasted chat lines until the user asks for a suggestion.
type MessageDialog struct {
	Transcript []string
}

// InterviewKind selects which questionnaire an InterviewDialog runs.
type InterviewKind string

const (
	ProfileInterview InterviewKind = "profile"
	OpenerInterview  InterviewKind = "opener"
)

// InterviewSteps is the number of questions of every interview.
const InterviewSteps = 5

var interviewFields = map[InterviewKind][InterviewSteps]ProfileField{
	ProfileInterview: {FieldAge, FieldOccupation, FieldHobby, FieldAnnoys, FieldGoals},
	OpenerInterview:  {FieldName, FieldAge, FieldHobby, FieldOccupation, FieldGoals},
}

// InterviewDialog asks InterviewSteps questions, one answer per inbound message.
// Step is 1-based and stays within 1..InterviewSteps.
type InterviewDialog struct {
	Kind    InterviewKind
	Step    int
	Profile UserProfile
}

func (IdleDialog) Mode() Mode    { return ModeIdle }
func (GptDialog) Mode() Mode     { return ModeGpt }
func (DateDialog) Mode() Mode    { return ModeDate }
func (MessageDialog) Mode() Mode { return ModeMessage }

func (d InterviewDialog) Mode() Mode {
	if d.Kind == OpenerInterview {
		return ModeOpener
	}
	return ModeProfile
}

func (IdleDialog) dialog()      {}
func (GptDialog) dialog()       {}
func (DateDialog) dialog()      {}
func (MessageDialog) dialog()   {}
func (InterviewDialog) dialog() {}

// NewInterview starts an interview of the given kind at step 1 with an empty profile.
func NewInterview(kind InterviewKind) InterviewDialog {
	return InterviewDialog{Kind: kind, Step: 1}
}

// Field returns the profile slot answered at the current step.
func (d InterviewDialog) Field() ProfileField {
	return FieldForStep(d.Kind, d.Step)
}

// Final reports whether the current step is the last question.
func (d InterviewDialog) Final() bool {
	return d.Step >= InterviewSteps
}

// Answer stores text into the current step's field and advances the step.
// The step never moves past InterviewSteps; answering the final step again overwrites it.
func (d InterviewDialog) Answer(text string) InterviewDialog {
	d.Profile.Set(d.Field(), text)
	if d.Step < InterviewSteps {
		d.Step++
	}
	return d
}

// FieldForStep maps a 1-based step to its profile field.
func FieldForStep(kind InterviewKind, step int) ProfileField {
	if step < 1 {
		step = 1
	}
	if step > InterviewSteps {
		step = InterviewSteps
	}
	return interviewFields[kind][step-1]
}

// StepOf returns the interview step of d, or 0 outside interview modes.
func StepOf(d Dialog) int {
	if iv, ok := d.(InterviewDialog); ok {
		return iv.Step
	}
	return 0
}
