// Package proposal drafts and fact-checks the tailored website proposal
// that drives the outreach call and email.
package proposal

import (
	"context"
	"fmt"
	"strings"

	"github.com/arnav/rapidreach/internal/llm"
	"github.com/arnav/rapidreach/internal/prompts"
)

// Draft writes a tailored website proposal from the research summary.
func Draft(ctx context.Context, client llm.Client, businessName, researchSummary string) (string, error) {
	template := prompts.MustGet("proposal.json", "draft-proposal")
	prompt := prompts.Format(template, map[string]string{
		"BusinessName": businessName,
		"Research":     researchSummary,
	})

	draft, err := client.GenerateContent(ctx, prompt, llm.RoleDraft)
	if err != nil {
		return "", fmt.Errorf("failed to draft proposal: %w", err)
	}

	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", fmt.Errorf("proposal draft came back empty")
	}
	return draft, nil
}

// FactCheck reviews a drafted proposal against the research and returns
// the refined version. Generator-critic: the critic runs on the
// classifier model, not the draft model.
func FactCheck(ctx context.Context, client llm.Client, proposalText, businessName, researchSummary string) (string, error) {
	template := prompts.MustGet("proposal.json", "fact-check-proposal")
	prompt := prompts.Format(template, map[string]string{
		"BusinessName": businessName,
		"Proposal":     proposalText,
		"Research":     researchSummary,
	})

	refined, err := client.GenerateContent(ctx, prompt, llm.RoleClassifier)
	if err != nil {
		return "", fmt.Errorf("failed to fact-check proposal: %w", err)
	}

	refined = strings.TrimSpace(refined)
	if refined == "" {
		return "", fmt.Errorf("fact-check came back empty")
	}
	return refined, nil
}

// Placeholder is the proposal used when drafting fails. The pipeline
// continues with it rather than aborting the run.
func Placeholder(businessName string) string {
	return fmt.Sprintf("Website proposal for %s — details to follow.", businessName)
}
