// Package steps defines the fixed outreach pipeline sequence: step
// names, ordering, categories, and conditional skip rules.
package steps

import "fmt"

// Step names, in pipeline order. The executor and the retry supervisor
// both key off these.
const (
	StepResearch  = "research"
	StepProposal  = "proposal"
	StepFactCheck = "fact_check"
	StepPhoneCall = "phone_call"
	StepClassify  = "classify"
	StepDeck      = "deck"
	StepEmail     = "email"
	StepSave      = "save"
)

// Step categories group steps for reporting.
const (
	CategoryResearch       = "research"
	CategoryDrafting       = "drafting"
	CategoryTelephony      = "telephony"
	CategoryClassification = "classification"
	CategoryArtifacts      = "artifacts"
	CategoryOutreach       = "outreach"
	CategoryPersistence    = "persistence"
)

// Definition describes one pipeline step.
type Definition struct {
	Name     string
	Category string
	Position int // 1-based position in the fixed sequence
}

// Registry maps step name to its definition.
var Registry = map[string]Definition{
	StepResearch:  {Name: StepResearch, Category: CategoryResearch, Position: 1},
	StepProposal:  {Name: StepProposal, Category: CategoryDrafting, Position: 2},
	StepFactCheck: {Name: StepFactCheck, Category: CategoryDrafting, Position: 3},
	StepPhoneCall: {Name: StepPhoneCall, Category: CategoryTelephony, Position: 4},
	StepClassify:  {Name: StepClassify, Category: CategoryClassification, Position: 5},
	StepDeck:      {Name: StepDeck, Category: CategoryArtifacts, Position: 6},
	StepEmail:     {Name: StepEmail, Category: CategoryOutreach, Position: 7},
	StepSave:      {Name: StepSave, Category: CategoryPersistence, Position: 8},
}

// Order is the fixed execution sequence.
var Order = []string{
	StepResearch,
	StepProposal,
	StepFactCheck,
	StepPhoneCall,
	StepClassify,
	StepDeck,
	StepEmail,
	StepSave,
}

// Total is the number of steps in the sequence.
const Total = 8

// RunState carries the request/artifact facts the skip rules look at.
type RunState struct {
	SkipCall      bool
	HasPhone      bool
	HasTranscript bool
}

// SkipReason reports why a step should be skipped for the given state,
// or "" if it must run. Only phone_call and classify are conditional.
func SkipReason(name string, st RunState) string {
	switch name {
	case StepPhoneCall:
		if st.SkipCall {
			return "skip_call requested"
		}
		if !st.HasPhone {
			return "no phone number provided"
		}
	case StepClassify:
		if !st.HasTranscript {
			return "no transcript available"
		}
	}
	return ""
}

// StatusCompleted is the bare status for a step that ran to completion.
const StatusCompleted = "completed"

// Completedf formats a completed status with extra detail.
func Completedf(format string, args ...any) string {
	return StatusCompleted + " " + fmt.Sprintf(format, args...)
}

// Failed formats a failed status from an error.
func Failed(err error) string {
	return fmt.Sprintf("failed: %v", err)
}

// Skipped formats a skipped status with its reason.
func Skipped(reason string) string {
	return fmt.Sprintf("skipped: %s", reason)
}
