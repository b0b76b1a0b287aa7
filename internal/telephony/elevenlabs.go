package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ElevenLabsProvider talks to the ElevenLabs conversational-AI batch
// calling API. Requests are paced with a client-side limiter so the
// completion poll stays inside the provider's courtesy limits.
type ElevenLabsProvider struct {
	apiKey        string
	agentID       string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	limiter       *rate.Limiter
}

// ElevenLabsConfig configures the provider client.
type ElevenLabsConfig struct {
	APIKey        string
	AgentID       string
	PhoneNumberID string
	BaseURL       string
}

// NewElevenLabsProvider builds the provider client. Returns an error
// when the credentials needed to place any call at all are missing.
func NewElevenLabsProvider(cfg ElevenLabsConfig) (*ElevenLabsProvider, error) {
	if cfg.APIKey == "" || cfg.AgentID == "" {
		return nil, fmt.Errorf("telephony API key or agent ID not configured")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	return &ElevenLabsProvider{
		apiKey:        cfg.APIKey,
		agentID:       cfg.AgentID,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		limiter:       rate.NewLimiter(rate.Every(time.Second), 2),
	}, nil
}

type batchSubmitRequest struct {
	CallName           string           `json:"call_name"`
	AgentID            string           `json:"agent_id"`
	AgentPhoneNumberID string           `json:"agent_phone_number_id"`
	Recipients         []batchRecipient `json:"recipients"`
}

type batchRecipient struct {
	PhoneNumber    string          `json:"phone_number"`
	InitiationData *initiationData `json:"conversation_initiation_client_data,omitempty"`
}

type initiationData struct {
	DynamicVariables map[string]string `json:"dynamic_variables"`
}

type batchSubmitResponse struct {
	ID string `json:"id"`
}

type batchStatusResponse struct {
	Status               string                 `json:"status"`
	TotalCallsDispatched int                    `json:"total_calls_dispatched"`
	TotalCallsFinished   int                    `json:"total_calls_finished"`
	Recipients           []batchStatusRecipient `json:"recipients"`
}

type batchStatusRecipient struct {
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
}

type conversationResponse struct {
	Transcript []conversationTurn    `json:"transcript"`
	Analysis   *conversationAnalysis `json:"analysis"`
}

type conversationTurn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type conversationAnalysis struct {
	TranscriptSummary string `json:"transcript_summary"`
}

// PlaceCall submits a single-recipient batch call and returns the batch id.
func (p *ElevenLabsProvider) PlaceCall(ctx context.Context, req PlaceRequest) (string, error) {
	body := batchSubmitRequest{
		CallName:           "SDR Call — " + req.BusinessName,
		AgentID:            p.agentID,
		AgentPhoneNumberID: p.phoneNumberID,
		Recipients: []batchRecipient{{
			PhoneNumber: req.PhoneNumber,
			InitiationData: &initiationData{
				DynamicVariables: map[string]string{
					"business_name": req.BusinessName,
					"context":       req.Context,
					"proposal":      req.ProposalSummary,
				},
			},
		}},
	}

	var resp batchSubmitResponse
	if err := p.doJSON(ctx, http.MethodPost, "/v1/convai/batch-calling/submit", body, &resp); err != nil {
		return "", fmt.Errorf("failed to place call: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("provider returned no batch id")
	}
	return resp.ID, nil
}

// BatchStatus reports whether a batch has finished and the conversation
// id of its single recipient.
func (p *ElevenLabsProvider) BatchStatus(ctx context.Context, batchID string) (BatchStatus, error) {
	var resp batchStatusResponse
	if err := p.doJSON(ctx, http.MethodGet, "/v1/convai/batch-calling/"+batchID, nil, &resp); err != nil {
		return BatchStatus{}, err
	}

	st := BatchStatus{Status: resp.Status}
	if resp.Status == "failed" || resp.Status == "cancelled" {
		st.Failed = true
	}
	if resp.TotalCallsDispatched > 0 && resp.TotalCallsFinished >= resp.TotalCallsDispatched {
		st.Finished = true
		st.Status = "completed"
	}
	if len(resp.Recipients) > 0 {
		r := resp.Recipients[0]
		st.ConversationID = r.ConversationID
		if st.Finished && r.Status != "" {
			st.Status = r.Status
		}
	}
	return st, nil
}

// Transcript fetches the conversation turns and joins them role-prefixed,
// falling back to the provider's own summary when no turns came back.
func (p *ElevenLabsProvider) Transcript(ctx context.Context, conversationID string) (string, error) {
	var resp conversationResponse
	if err := p.doJSON(ctx, http.MethodGet, "/v1/convai/conversations/"+conversationID, nil, &resp); err != nil {
		return "", err
	}

	var lines []string
	for _, turn := range resp.Transcript {
		if turn.Message != "" {
			lines = append(lines, turn.Role+": "+turn.Message)
		}
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), nil
	}
	if resp.Analysis != nil {
		return resp.Analysis.TranscriptSummary, nil
	}
	return "", nil
}

func (p *ElevenLabsProvider) doJSON(ctx context.Context, method, path string, body, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", p.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
