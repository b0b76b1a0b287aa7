// Package pipeline provides the step executor for the outreach
// pipeline: a fixed 8-step sequence with per-step failure isolation.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arnav/rapidreach/internal/classify"
	"github.com/arnav/rapidreach/internal/deck"
	"github.com/arnav/rapidreach/internal/email"
	"github.com/arnav/rapidreach/internal/llm"
	"github.com/arnav/rapidreach/internal/notify"
	"github.com/arnav/rapidreach/internal/pipeline/steps"
	"github.com/arnav/rapidreach/internal/proposal"
	"github.com/arnav/rapidreach/internal/research"
	"github.com/arnav/rapidreach/internal/session"
	"github.com/arnav/rapidreach/internal/transcript"
	"github.com/arnav/rapidreach/internal/types"
)

// ResearchProvider produces a research summary. Implementations never
// fail; the lowest tier is a local template.
type ResearchProvider interface {
	Research(ctx context.Context, req *types.SDRRequest) string
}

// CallPlacer places one outbound call and reports its result.
type CallPlacer interface {
	Call(ctx context.Context, phoneNumber, businessName, researchContext, proposalSummary string) *types.CallResult
}

// DeckGenerator renders the presentation artifact.
type DeckGenerator interface {
	Generate(ctx context.Context, req *deck.GenerateRequest) (*types.Deck, error)
}

// EmailSender delivers the outreach email.
type EmailSender interface {
	Send(ctx context.Context, msg *email.Message) *types.EmailSendResult
}

// SessionSaver persists sessions and lead status durably.
type SessionSaver interface {
	SaveSession(ctx context.Context, sess *types.SDRResult) error
	UpdateLeadStatus(ctx context.Context, placeID string, status types.LeadStatus) error
}

// Options wires the pipeline's collaborators. Any of them may be nil;
// the owning step then fails cleanly and the pipeline continues.
type Options struct {
	LLM           llm.Client
	Researcher    ResearchProvider
	Caller        CallPlacer
	Decks         DeckGenerator
	Sender        EmailSender
	Notifier      *notify.Notifier
	OnProgress    func(message string)
	Store         *session.Store
	Database      SessionSaver
	FallbackEmail string
	SalesEmail    string
	StepTimeout   time.Duration
	Now           func() time.Time
}

// Pipeline runs the fixed outreach sequence for one lead at a time.
type Pipeline struct {
	opts Options
}

// New creates a Pipeline. StepTimeout defaults to 6 minutes, long
// enough to cover the call adapter's own 5-minute ceiling.
func New(opts Options) *Pipeline {
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = 6 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Store == nil {
		opts.Store = session.NewStore()
	}
	return &Pipeline{opts: opts}
}

// StepOutcome is one entry of the final report, in step order.
type StepOutcome struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Report is the pipeline's final result.
type Report struct {
	Status       string        `json:"status"`
	SessionID    string        `json:"session_id,omitempty"`
	BusinessName string        `json:"business_name,omitempty"`
	Steps        []StepOutcome `json:"step_results,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// StepStatus returns the status recorded for a step, or "" if the step
// never reported.
func (r *Report) StepStatus(name string) string {
	for _, s := range r.Steps {
		if s.Name == name {
			return s.Status
		}
	}
	return ""
}

// runState is the mutable artifact set threaded through the steps.
type runState struct {
	sessionID    string
	req          *types.SDRRequest
	research     string
	proposal     string
	transcript   string
	outcome      types.CallOutcome
	deck         *types.Deck
	emailResult  *types.EmailSendResult
	emailSubject string
}

// Run executes the full sequence for one request. Steps never abort the
// run: each failure is recorded and the next step proceeds. Only a
// malformed request produces a top-level error report.
func (p *Pipeline) Run(ctx context.Context, req *types.SDRRequest) *Report {
	if err := types.ValidateSDRRequest(req); err != nil {
		return &Report{Status: "error", Message: err.Error()}
	}

	st := &runState{
		sessionID: uuid.NewString(),
		req:       req,
		outcome:   types.OutcomeOther,
	}
	report := &Report{
		Status:       "success",
		SessionID:    st.sessionID,
		BusinessName: req.BusinessName,
	}

	skipState := steps.RunState{
		SkipCall: req.SkipCall,
		HasPhone: req.Phone != "",
	}

	for _, name := range steps.Order {
		def := steps.Registry[name]
		p.progress(ctx, req, fmt.Sprintf("Step %d/%d — %s", def.Position, steps.Total, stepMessage(name)))

		skipState.HasTranscript = st.transcript != ""
		if reason := steps.SkipReason(name, skipState); reason != "" {
			log.Printf("[%s] step %d/%d %s skipped: %s", st.sessionID, def.Position, steps.Total, name, reason)
			report.Steps = append(report.Steps, StepOutcome{Name: name, Status: steps.Skipped(reason)})
			continue
		}

		status := p.runStep(ctx, st, name)
		log.Printf("[%s] step %d/%d %s: %s", st.sessionID, def.Position, steps.Total, name, status)
		report.Steps = append(report.Steps, StepOutcome{Name: name, Status: status})
	}

	report.Summary = summarize(report)

	p.notifyCompleted(ctx, req, report)
	p.markContacted(ctx, req)

	return report
}

// runStep executes one step with a bounded deadline and panic
// isolation. A panicking step is reported as failed, never propagated.
func (p *Pipeline) runStep(ctx context.Context, st *runState, name string) (status string) {
	defer func() {
		if r := recover(); r != nil {
			status = steps.Failed(fmt.Errorf("panic: %v", r))
		}
	}()

	stepCtx, cancel := context.WithTimeout(ctx, p.opts.StepTimeout)
	defer cancel()

	switch name {
	case steps.StepResearch:
		return p.stepResearch(stepCtx, st)
	case steps.StepProposal:
		return p.stepProposal(stepCtx, st)
	case steps.StepFactCheck:
		return p.stepFactCheck(stepCtx, st)
	case steps.StepPhoneCall:
		return p.stepPhoneCall(stepCtx, st)
	case steps.StepClassify:
		return p.stepClassify(stepCtx, st)
	case steps.StepDeck:
		return p.stepDeck(stepCtx, st)
	case steps.StepEmail:
		return p.stepEmail(stepCtx, st)
	case steps.StepSave:
		return p.stepSave(stepCtx, st)
	}
	return steps.Failed(fmt.Errorf("unknown step %s", name))
}

func (p *Pipeline) stepResearch(ctx context.Context, st *runState) string {
	if p.opts.Researcher == nil {
		st.research = research.FallbackReport(st.req)
		return steps.Failed(fmt.Errorf("research component not configured"))
	}
	st.research = p.opts.Researcher.Research(ctx, st.req)
	return steps.StatusCompleted
}

func (p *Pipeline) stepProposal(ctx context.Context, st *runState) string {
	if p.opts.LLM == nil {
		st.proposal = proposal.Placeholder(st.req.BusinessName)
		return steps.Failed(fmt.Errorf("llm client not configured"))
	}
	draft, err := proposal.Draft(ctx, p.opts.LLM, st.req.BusinessName, st.research)
	if err != nil {
		st.proposal = proposal.Placeholder(st.req.BusinessName)
		return steps.Failed(err)
	}
	st.proposal = draft
	return steps.StatusCompleted
}

func (p *Pipeline) stepFactCheck(ctx context.Context, st *runState) string {
	if p.opts.LLM == nil {
		return steps.Failed(fmt.Errorf("llm client not configured"))
	}
	refined, err := proposal.FactCheck(ctx, p.opts.LLM, st.proposal, st.req.BusinessName, st.research)
	if err != nil {
		// keep the unchecked draft
		return steps.Failed(err)
	}
	st.proposal = refined
	return steps.StatusCompleted
}

func (p *Pipeline) stepPhoneCall(ctx context.Context, st *runState) string {
	if p.opts.Caller == nil {
		return steps.Failed(fmt.Errorf("telephony not configured"))
	}
	result := p.opts.Caller.Call(ctx, st.req.Phone, st.req.BusinessName, st.research, st.proposal)
	st.transcript = result.Transcript
	if !result.Success {
		// The adapter's failure-leaning outcome only annotates the step
		// status; the session outcome stays "other" until a transcript
		// is actually classified.
		if result.Outcome != "" && result.Outcome != types.OutcomeOther {
			return steps.Failed(fmt.Errorf("%s (outcome: %s)", result.Error, result.Outcome))
		}
		return steps.Failed(fmt.Errorf("%s", result.Error))
	}
	return steps.StatusCompleted
}

func (p *Pipeline) stepClassify(ctx context.Context, st *runState) string {
	if p.opts.LLM == nil {
		return steps.Failed(fmt.Errorf("llm client not configured"))
	}
	classification, err := classify.Classify(ctx, p.opts.LLM, st.transcript, st.req.BusinessName)
	st.outcome = classification.Outcome
	if err != nil {
		return steps.Failed(err)
	}
	return steps.Completedf("(%s)", classification.Outcome)
}

func (p *Pipeline) stepDeck(ctx context.Context, st *runState) string {
	if p.opts.Decks == nil {
		return steps.Failed(fmt.Errorf("deck generator not configured"))
	}
	contactEmail := st.req.Email
	if contactEmail == "" {
		contactEmail = p.opts.FallbackEmail
	}
	artifact, err := p.opts.Decks.Generate(ctx, &deck.GenerateRequest{
		SessionID:       st.sessionID,
		BusinessName:    st.req.BusinessName,
		ResearchSummary: st.research,
		CallTranscript:  st.transcript,
		CallOutcome:     string(st.outcome),
		ContactEmail:    contactEmail,
		MeetingDate:     p.opts.Now().Format(time.RFC3339),
		TemplateStyle:   st.req.DeckTemplate,
	})
	if err != nil {
		return steps.Failed(err)
	}
	st.deck = artifact
	return steps.StatusCompleted
}

func (p *Pipeline) stepEmail(ctx context.Context, st *runState) string {
	if p.opts.Sender == nil {
		return steps.Failed(fmt.Errorf("mail sender not configured"))
	}

	to, err := email.ResolveRecipient(st.req.Email, st.transcript, p.opts.FallbackEmail)
	if err != nil {
		return steps.Failed(err)
	}

	st.emailSubject = email.Subject(st.req.BusinessName)

	meetingAt := transcript.MeetingTime(st.transcript, p.opts.Now())
	ics := transcript.GenerateICS(transcript.ICSOptions{
		Start:          meetingAt,
		Summary:        fmt.Sprintf("RapidReach — Follow-up with %s", st.req.BusinessName),
		Description:    fmt.Sprintf("Follow-up discussion about our website proposal for %s. Presented by the RapidReach Team.", st.req.BusinessName),
		AttendeeEmail:  to,
		OrganizerEmail: p.opts.SalesEmail,
	})

	msg := &email.Message{
		To:          to,
		Subject:     st.emailSubject,
		HTMLBody:    email.HTMLBody(st.req.BusinessName, st.proposal, st.transcript != ""),
		PlainBody:   email.PlainBody(st.req.BusinessName),
		Attachment:  st.deck,
		CalendarICS: ics,
	}

	st.emailResult = p.opts.Sender.Send(ctx, msg)
	if !st.emailResult.Success {
		return steps.Failed(fmt.Errorf("%s", st.emailResult.Error))
	}
	return steps.Completedf("(to %s)", to)
}

func (p *Pipeline) stepSave(ctx context.Context, st *runState) string {
	result := &types.SDRResult{
		SessionID:       st.sessionID,
		LeadPlaceID:     st.req.PlaceID,
		BusinessName:    st.req.BusinessName,
		ResearchSummary: st.research,
		ProposalSummary: st.proposal,
		CallTranscript:  st.transcript,
		CallOutcome:     st.outcome,
		EmailSent:       st.emailResult != nil && st.emailResult.Success,
		EmailSubject:    st.emailSubject,
		CreatedAt:       p.opts.Now().UTC(),
	}

	// The in-memory copy is kept even when durable persistence fails,
	// so the API can still serve the session.
	p.opts.Store.Put(st.sessionID, &session.Record{Result: result, Deck: st.deck})

	if p.opts.Database == nil {
		return steps.Completedf("(memory only)")
	}
	if err := p.opts.Database.SaveSession(ctx, result); err != nil {
		return steps.Failed(err)
	}
	return steps.StatusCompleted
}

// progress emits a step-boundary event. Best effort.
func (p *Pipeline) progress(ctx context.Context, req *types.SDRRequest, message string) {
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(message)
	}
	if p.opts.Notifier == nil {
		return
	}
	p.opts.Notifier.Notify(ctx, req.CallbackURL, &types.AgentCallback{
		AgentType:    types.AgentSDR,
		Event:        "step_progress",
		BusinessName: req.BusinessName,
		Message:      message,
	})
}

func (p *Pipeline) notifyCompleted(ctx context.Context, req *types.SDRRequest, report *Report) {
	if p.opts.Notifier == nil {
		return
	}
	stepResults := make(map[string]string, len(report.Steps))
	for _, s := range report.Steps {
		stepResults[s.Name] = s.Status
	}
	p.opts.Notifier.Notify(ctx, req.CallbackURL, &types.AgentCallback{
		AgentType:    types.AgentSDR,
		Event:        "sdr_completed",
		BusinessID:   req.PlaceID,
		BusinessName: req.BusinessName,
		Message:      fmt.Sprintf("SDR outreach completed for %s", req.BusinessName),
		Data: map[string]any{
			"session_id":   report.SessionID,
			"summary":      types.Truncate(report.Summary, 1000),
			"step_results": stepResults,
		},
	})
}

// markContacted moves the lead to contacted after a run. Failures are
// logged only; the run already succeeded from the caller's view.
func (p *Pipeline) markContacted(ctx context.Context, req *types.SDRRequest) {
	if p.opts.Database == nil || req.PlaceID == "" {
		return
	}
	if err := p.opts.Database.UpdateLeadStatus(ctx, req.PlaceID, types.LeadStatusContacted); err != nil {
		log.Printf("lead status update failed for %s: %v", req.PlaceID, err)
	}
}

func stepMessage(name string) string {
	switch name {
	case steps.StepResearch:
		return "Researching business..."
	case steps.StepProposal:
		return "Drafting website proposal..."
	case steps.StepFactCheck:
		return "Fact-checking proposal..."
	case steps.StepPhoneCall:
		return "Calling business..."
	case steps.StepClassify:
		return "Classifying call outcome..."
	case steps.StepDeck:
		return "Generating business deck..."
	case steps.StepEmail:
		return "Sending outreach email..."
	case steps.StepSave:
		return "Saving session to database..."
	}
	return name
}

func summarize(report *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SDR Pipeline completed for %s\n\nStep Results:\n", report.BusinessName)
	for _, s := range report.Steps {
		marker := "x"
		if strings.HasPrefix(s.Status, steps.StatusCompleted) {
			marker = "+"
		} else if strings.HasPrefix(s.Status, "skipped") {
			marker = "-"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", marker, s.Name, s.Status)
	}
	return b.String()
}
