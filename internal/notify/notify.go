// Package notify posts progress events to the dashboard. Delivery is
// best effort: a dead dashboard must never stall or fail a pipeline
// run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/arnav/rapidreach/internal/types"
)

// Notifier POSTs AgentCallback events to a callback URL.
type Notifier struct {
	defaultURL string
	client     *http.Client
}

// NewNotifier creates a notifier. defaultURL is used when an event has
// no per-request callback URL; empty means events without one are
// dropped.
func NewNotifier(defaultURL string, client *http.Client) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Notifier{defaultURL: defaultURL, client: client}
}

// Notify delivers one event. Failures are logged and swallowed.
func (n *Notifier) Notify(ctx context.Context, callbackURL string, event *types.AgentCallback) {
	url := callbackURL
	if url == "" {
		url = n.defaultURL
	}
	if url == "" {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("callback payload encode failed: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("callback request build failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("UI callback failed: %v", err)
		return
	}
	resp.Body.Close()
}
