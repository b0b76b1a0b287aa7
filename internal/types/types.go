// Package types defines the shared domain models used across the SDR services.
// Single source of truth for leads, sessions, callbacks, and request payloads.
package types

import (
	"time"
	"unicode/utf8"
)

// LeadStatus tracks where a lead sits in the outreach funnel.
type LeadStatus string

// Lead status values
const (
	LeadStatusNew              LeadStatus = "new"
	LeadStatusContacted        LeadStatus = "contacted"
	LeadStatusInterested       LeadStatus = "interested"
	LeadStatusNotInterested    LeadStatus = "not_interested"
	LeadStatusMeetingScheduled LeadStatus = "meeting_scheduled"
	LeadStatusHotLead          LeadStatus = "hot_lead"
	LeadStatusClosed           LeadStatus = "closed"
)

// CallOutcome is the closed classification of a phone call result.
type CallOutcome string

// Call outcome values. Classification maps free-text call analysis onto
// exactly one of these; unparseable or low-confidence results fall back
// to OutcomeOther.
const (
	OutcomeInterested    CallOutcome = "interested"
	OutcomeAgreedToEmail CallOutcome = "agreed_to_email"
	OutcomeNotInterested CallOutcome = "not_interested"
	OutcomeNoAnswer      CallOutcome = "no_answer"
	OutcomeIssue         CallOutcome = "issue_appeared"
	OutcomeOther         CallOutcome = "other"
)

// ParseCallOutcome maps a raw string onto the closed enumeration,
// falling back to OutcomeOther for anything unrecognized.
func ParseCallOutcome(s string) CallOutcome {
	switch CallOutcome(s) {
	case OutcomeInterested, OutcomeAgreedToEmail, OutcomeNotInterested,
		OutcomeNoAnswer, OutcomeIssue, OutcomeOther:
		return CallOutcome(s)
	default:
		return OutcomeOther
	}
}

// AgentType identifies which service produced a callback event.
type AgentType string

// Agent type values
const (
	AgentLeadFinder    AgentType = "lead_finder"
	AgentSDR           AgentType = "sdr"
	AgentLeadManager   AgentType = "lead_manager"
	AgentGmailListener AgentType = "gmail_listener"
	AgentCalendar      AgentType = "calendar"
	AgentDeckGenerator AgentType = "deck_generator"
)

// Lead is a business discovered by the lead finder, keyed by place ID.
type Lead struct {
	PlaceID      string     `json:"place_id"`
	BusinessName string     `json:"business_name"`
	Address      string     `json:"address,omitempty"`
	City         string     `json:"city,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email,omitempty"`
	Website      string     `json:"website,omitempty"`
	BusinessType string     `json:"business_type,omitempty"`
	HasWebsite   bool       `json:"has_website"`
	LeadStatus   LeadStatus `json:"lead_status"`
	DiscoveredAt time.Time  `json:"discovered_at"`
	Notes        string     `json:"notes,omitempty"`
}

// SDRRequest is the pipeline entry payload accepted by POST /run_sdr.
type SDRRequest struct {
	BusinessName string `json:"business_name" validate:"required"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	PlaceID      string `json:"place_id,omitempty"`
	LeadContext  string `json:"lead_context,omitempty"`
	CallbackURL  string `json:"callback_url,omitempty" validate:"omitempty,url"`
	SkipCall     bool   `json:"skip_call,omitempty"`
	DeckTemplate string `json:"deck_template,omitempty"`
}

// SDRResult is the durable record of one outreach session.
// Text fields are capped at 5000 characters before persistence.
type SDRResult struct {
	SessionID       string      `json:"session_id"`
	LeadPlaceID     string      `json:"lead_place_id,omitempty"`
	BusinessName    string      `json:"business_name"`
	ResearchSummary string      `json:"research_summary,omitempty"`
	ProposalSummary string      `json:"proposal_summary,omitempty"`
	CallTranscript  string      `json:"call_transcript,omitempty"`
	CallOutcome     CallOutcome `json:"call_outcome"`
	EmailSent       bool        `json:"email_sent"`
	EmailSubject    string      `json:"email_subject,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// ConversationClassification is the structured result of classifying
// a call transcript.
type ConversationClassification struct {
	Outcome    CallOutcome `json:"outcome"`
	Confidence float64     `json:"confidence"`
	KeyPoints  []string    `json:"key_points,omitempty"`
	NextAction string      `json:"next_action,omitempty"`
	Summary    string      `json:"summary,omitempty"`
}

// AgentCallback is the progress-event payload POSTed to the dashboard.
type AgentCallback struct {
	AgentType    AgentType      `json:"agent_type"`
	Event        string         `json:"event"`
	BusinessID   string         `json:"business_id,omitempty"`
	BusinessName string         `json:"business_name,omitempty"`
	Status       string         `json:"status,omitempty"`
	Message      string         `json:"message,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	Data         map[string]any `json:"data,omitempty"`
}

// CallResult is the normalized outcome of one outbound call attempt.
// Other components rely on this exact shape.
type CallResult struct {
	Success        bool        `json:"success"`
	PhoneNumber    string      `json:"phone_number,omitempty"`
	BusinessName   string      `json:"business_name,omitempty"`
	Transcript     string      `json:"transcript"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Status         string      `json:"status,omitempty"`
	CalledAt       time.Time   `json:"called_at,omitempty"`
	Error          string      `json:"error,omitempty"`
	Outcome        CallOutcome `json:"outcome,omitempty"`
}

// EmailSendResult reports whether an outreach email was accepted by the
// mail provider, and to whom it went.
type EmailSendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	To        string `json:"to,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Deck is a generated slide-deck artifact with its binary payload.
type Deck struct {
	Filename string         `json:"filename"`
	Content  map[string]any `json:"content,omitempty"`
	FileData []byte         `json:"file_data,omitempty"`
}

// Truncate caps s at max bytes. Persistence uses this to keep records
// within column limits.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character into invalid UTF-8.
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
