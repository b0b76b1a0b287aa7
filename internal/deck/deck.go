// Package deck is the HTTP client for the deck-generator service, which
// renders a per-lead presentation attached to the outreach email.
package deck

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arnav/rapidreach/internal/types"
)

// GenerateRequest is the deck-generator contract. CallOutcome rides as
// its string form.
type GenerateRequest struct {
	SessionID       string `json:"session_id"`
	BusinessName    string `json:"business_name"`
	ResearchSummary string `json:"research_summary"`
	CallTranscript  string `json:"call_transcript"`
	CallOutcome     string `json:"call_outcome"`
	ContactEmail    string `json:"contact_email,omitempty"`
	MeetingDate     string `json:"meeting_date,omitempty"`
	TemplateStyle   string `json:"template_style,omitempty"`
}

type generateResponse struct {
	Success     bool           `json:"success"`
	Filename    string         `json:"filename"`
	DeckContent map[string]any `json:"deck_content"`
	DeckFileB64 string         `json:"deck_file_b64"`
	Error       string         `json:"error"`
}

// Client talks to the deck-generator service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a deck client. Deck rendering is slow, so the
// default timeout is a generous 60s.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Generate requests a deck and decodes the returned artifact.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*types.Deck, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-deck", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build deck request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("deck generator unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("deck generator returned status %d: %s", resp.StatusCode, detail)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode deck response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("deck generator returned failure: %s", result.Error)
	}

	filename := result.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s_Business_Solution.pptx", req.BusinessName)
	}

	var fileData []byte
	if result.DeckFileB64 != "" {
		fileData, err = base64.StdEncoding.DecodeString(result.DeckFileB64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode deck artifact: %w", err)
		}
	}

	return &types.Deck{
		Filename: filename,
		Content:  result.DeckContent,
		FileData: fileData,
	}, nil
}
