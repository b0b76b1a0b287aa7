package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnav/rapidreach/internal/pipeline"
	"github.com/arnav/rapidreach/internal/types"
)

func TestPrintStepReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &pipeline.Report{
		Status:       "success",
		SessionID:    "s-1",
		BusinessName: "Joe's Cafe",
		Steps: []pipeline.StepOutcome{
			{Name: "research", Status: "completed"},
			{Name: "phone_call", Status: "skipped: skip_call requested"},
			{Name: "email", Status: "failed: no email address available"},
		},
	}

	p.PrintStepReport(report)
	output := buf.String()

	assert.Contains(t, output, "PIPELINE STEP REPORT")
	assert.Contains(t, output, "Joe's Cafe")
	assert.Contains(t, output, "[+] research")
	assert.Contains(t, output, "[-] phone_call")
	assert.Contains(t, output, "[x] email")
}

func TestPrintStepReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStepReport(nil)
	p.PrintStepReport(&pipeline.Report{})

	assert.Empty(t, buf.String())
}

func TestPrintSessionSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSessionSummary(&types.SDRResult{
		SessionID:       "s-1",
		BusinessName:    "Joe's Cafe",
		CallOutcome:     types.OutcomeInterested,
		EmailSent:       true,
		EmailSubject:    "Website Proposal for Joe's Cafe",
		ResearchSummary: strings.Repeat("research ", 50),
	})
	output := buf.String()

	assert.Contains(t, output, "SESSION s-1")
	assert.Contains(t, output, "Joe's Cafe")
	assert.Contains(t, output, "interested")
	assert.Contains(t, output, "sent=true")
	assert.Contains(t, output, "...", "long research text must be previewed")
}

func TestPrintSessionSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSessionSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintClassification(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintClassification(&types.ConversationClassification{
		Outcome:    types.OutcomeAgreedToEmail,
		Confidence: 0.92,
		KeyPoints:  []string{"wants pricing", "prefers email"},
		NextAction: "Send proposal email",
		Summary:    "Owner asked for details by email.",
	})
	output := buf.String()

	assert.Contains(t, output, "CALL CLASSIFICATION")
	assert.Contains(t, output, "agreed_to_email")
	assert.Contains(t, output, "0.92")
	assert.Contains(t, output, "wants pricing")
	assert.Contains(t, output, "Send proposal email")
}
