package telephony

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/arnav/rapidreach/internal/types"
)

// contextLimit caps the research/proposal context sent to the provider
// to respect downstream prompt-size limits.
const contextLimit = 500

// PlaceRequest carries everything the provider needs to start one call.
type PlaceRequest struct {
	PhoneNumber     string
	BusinessName    string
	Context         string
	ProposalSummary string
}

// BatchStatus is the provider's view of an in-flight call batch.
type BatchStatus struct {
	Finished       bool
	Failed         bool
	Status         string
	ConversationID string
}

// Provider is the telephony backend: place a call, poll it, fetch the
// transcript once done.
type Provider interface {
	PlaceCall(ctx context.Context, req PlaceRequest) (batchID string, err error)
	BatchStatus(ctx context.Context, batchID string) (BatchStatus, error)
	Transcript(ctx context.Context, conversationID string) (string, error)
}

// Caller is the outbound call adapter. It owns phone validation, the
// cooldown registry, and the bounded completion poll. Call never returns
// an error: every failure mode is folded into the CallResult contract.
type Caller struct {
	provider     Provider
	cooldowns    *CooldownRegistry
	pollInterval time.Duration
	callTimeout  time.Duration
}

// CallerOptions configures a Caller.
type CallerOptions struct {
	Provider     Provider
	Cooldown     time.Duration
	PollInterval time.Duration
	CallTimeout  time.Duration
}

// NewCaller builds the adapter. A nil provider is allowed: calls then
// fail structurally with a configuration error, per the step contract.
func NewCaller(opts CallerOptions) *Caller {
	if opts.Cooldown <= 0 {
		opts.Cooldown = time.Hour
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 5 * time.Minute
	}
	return &Caller{
		provider:     opts.Provider,
		cooldowns:    NewCooldownRegistry(opts.Cooldown),
		pollInterval: opts.PollInterval,
		callTimeout:  opts.CallTimeout,
	}
}

// Call places exactly one telephony attempt for a business, subject to
// the cooldown, and returns a normalized result. On timeout or provider
// failure the result carries success=false, an empty transcript, and an
// issue_appeared-leaning outcome.
func (c *Caller) Call(ctx context.Context, phoneNumber, businessName, researchContext, proposalSummary string) *types.CallResult {
	if c.provider == nil {
		return &types.CallResult{
			Success:    false,
			Error:      "telephony provider not configured",
			Transcript: "",
			Outcome:    types.OutcomeIssue,
		}
	}

	validated, err := NormalizePhone(phoneNumber)
	if err != nil {
		return &types.CallResult{
			Success:    false,
			Error:      err.Error(),
			Transcript: "",
			Outcome:    types.OutcomeIssue,
		}
	}

	if ok, elapsed := c.cooldowns.Reserve(validated); !ok {
		return &types.CallResult{
			Success:    false,
			Error:      fmt.Sprintf("called %s %d min ago, cooldown active", validated, int(elapsed.Minutes())),
			Transcript: "",
			Outcome:    types.OutcomeOther,
		}
	}

	batchID, err := c.provider.PlaceCall(ctx, PlaceRequest{
		PhoneNumber:     validated,
		BusinessName:    businessName,
		Context:         types.Truncate(researchContext, contextLimit),
		ProposalSummary: types.Truncate(proposalSummary, contextLimit),
	})
	if err != nil {
		c.cooldowns.Release(validated)
		return &types.CallResult{
			Success:    false,
			Error:      err.Error(),
			Transcript: "",
			Outcome:    types.OutcomeIssue,
		}
	}
	log.Printf("telephony: batch call %s placed for %s (%s)", batchID, businessName, validated)

	conversationID, callStatus, completed := c.waitForCompletion(ctx, batchID)
	if !completed {
		return &types.CallResult{
			Success:    false,
			Error:      fmt.Sprintf("call did not complete within %s (status %s)", c.callTimeout, callStatus),
			Transcript: "",
			Outcome:    types.OutcomeIssue,
		}
	}

	transcript := ""
	if conversationID != "" {
		transcript, err = c.provider.Transcript(ctx, conversationID)
		if err != nil {
			log.Printf("telephony: failed to fetch transcript for %s: %v", conversationID, err)
			transcript = ""
		}
	}
	if transcript == "" {
		transcript = "(call completed, transcript unavailable)"
	}

	return &types.CallResult{
		Success:        true,
		PhoneNumber:    validated,
		BusinessName:   businessName,
		Transcript:     transcript,
		ConversationID: conversationID,
		Status:         callStatus,
		CalledAt:       time.Now().UTC(),
	}
}

// waitForCompletion polls the provider at a fixed interval up to the
// call timeout. Poll errors are logged and retried; the deadline is the
// only way out on a hung call.
func (c *Caller) waitForCompletion(ctx context.Context, batchID string) (conversationID, status string, completed bool) {
	status = "initiated"
	deadline := time.NewTimer(c.callTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", "cancelled", false
		case <-deadline.C:
			return conversationID, status, false
		case <-ticker.C:
			st, err := c.provider.BatchStatus(ctx, batchID)
			if err != nil {
				log.Printf("telephony: polling error for batch %s: %v", batchID, err)
				continue
			}
			if st.Failed {
				return st.ConversationID, st.Status, false
			}
			if st.Finished {
				status = st.Status
				if status == "" {
					status = "completed"
				}
				return st.ConversationID, status, true
			}
		}
	}
}
