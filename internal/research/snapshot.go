package research

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// snapshotLimit caps extracted page text so one large page can't blow
// up the research prompt.
const snapshotLimit = 1500

// SnapshotFetcher fetches a page and extracts its visible text.
type SnapshotFetcher struct {
	client *http.Client
}

// NewSnapshotFetcher creates a fetcher. A nil client gets a default with
// a 15s timeout.
func NewSnapshotFetcher(client *http.Client) *SnapshotFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &SnapshotFetcher{client: client}
}

// Fetch downloads the page at url and returns its title plus collapsed
// body text, capped at snapshotLimit characters.
func (f *SnapshotFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build snapshot request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; RapidReach/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("snapshot fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("snapshot fetch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse snapshot page: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var parts []string
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, title)
	}
	body := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if body != "" {
		parts = append(parts, body)
	}

	text := strings.Join(parts, "\n")
	if len(text) > snapshotLimit {
		text = text[:snapshotLimit]
	}
	return text, nil
}
