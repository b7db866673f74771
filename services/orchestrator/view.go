package orchestrator

import (
	"html/template"

	"sanket/models"
	"sanket/services/fields"
)

// ControlState is the lifecycle of a submit control.
type ControlState int

const (
	ControlIdle ControlState = iota
	ControlSubmitting
	ControlSucceeded
	ControlFailed
)

func (s ControlState) String() string {
	switch s {
	case ControlSubmitting:
		return "submitting"
	case ControlSucceeded:
		return "succeeded"
	case ControlFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Control is a submit button: its label, whether it is disabled, and where
// its workflow is in Idle -> Submitting -> (Succeeded|Failed) -> Idle.
// Last keeps the outcome of the most recent submission.
type Control struct {
	Label    string
	Disabled bool
	State    ControlState
	Last     ControlState

	idleLabel string
	busyLabel string
}

func newControl(idleLabel, busyLabel string) Control {
	return Control{Label: idleLabel, idleLabel: idleLabel, busyLabel: busyLabel}
}

func (c *Control) busy() bool {
	return c.State == ControlSubmitting
}

func (c *Control) begin() {
	c.State = ControlSubmitting
	c.Disabled = true
	c.Label = c.busyLabel
}

func (c *Control) finish(ok bool) {
	if ok {
		c.Last = ControlSucceeded
	} else {
		c.Last = ControlFailed
	}
	c.State = ControlIdle
	c.Disabled = false
	c.Label = c.idleLabel
}

// ChatLine is one rendered transcript turn.
type ChatLine struct {
	Author string
	Text   string
	HTML   template.HTML
}

// Page is the view model of every region of the page for one visitor.
type Page struct {
	SignedIn      bool
	UserEmail     string
	LoginControl  Control
	LoginError    string
	SignupControl Control
	SignupError   string

	AnalyzeControl Control
	AnalyzeError   string
	ResultsVisible bool
	SummaryTitle   string
	SummaryHTML    template.HTML
	SourceHTML     template.HTML
	SentimentHTML  template.HTML
	ImpactHTML     template.HTML
	ImpactVisible  bool
	NewsHTML       template.HTML
	NewsVisible    bool

	CompareControl Control
	CompareError   string
	CompareVisible bool
	CompareHTML    template.HTML

	ChatControl Control
	ChatError   string
	Transcript  []ChatLine

	ProfileVisible bool
	ProfileControl Control
	Profile        models.Profile
	Fields         fields.Visibility
	ProfileMessage string
	ProfileFailed  bool

	SchemesVisible bool
	SchemesLoading bool
	SchemesHTML    template.HTML
	SchemesError   string

	HistoryHTML         template.HTML
	HistoryEmptyText    string
	HistoryEmptyVisible bool
}

func newPage(maritalDefault string) Page {
	profile := models.Profile{}.WithDefaults(maritalDefault)
	return Page{
		LoginControl:        newControl("Login", "Logging in..."),
		SignupControl:       newControl("Sign Up", "Signing up..."),
		AnalyzeControl:      newControl("Analyze Bill", "Analyzing..."),
		CompareControl:      newControl("Compare", "Comparing..."),
		ChatControl:         newControl("Send", "Thinking..."),
		ProfileControl:      newControl("Save Profile & Find Schemes", "Saving..."),
		Profile:             profile,
		Fields:              fields.ForProfile(profile),
		HistoryEmptyText:    MsgHistorySignedOut,
		HistoryEmptyVisible: true,
	}
}
