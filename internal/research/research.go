// Package research produces a business research report for the pipeline.
// It tries web search first, falls back to model knowledge, and finally
// to a locally generated template, so a report is always produced.
package research

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/arnav/rapidreach/internal/llm"
	"github.com/arnav/rapidreach/internal/prompts"
	"github.com/arnav/rapidreach/internal/types"
)

// maxFindings caps how many search results feed the research prompt.
const maxFindings = 8

type searchResult struct {
	Title   string
	Snippet string
	Link    string
}

// searcher abstracts the search backend so tests can stub it.
type searcher interface {
	Search(ctx context.Context, query string, num int64) ([]searchResult, error)
}

// cseSearcher runs queries against Google Programmable Search.
type cseSearcher struct {
	svc *customsearch.Service
	cx  string
}

func (s *cseSearcher) Search(ctx context.Context, query string, num int64) ([]searchResult, error) {
	resp, err := s.svc.Cse.List().Context(ctx).Cx(s.cx).Q(query).Num(num).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	results := make([]searchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, searchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	return results, nil
}

// Researcher handles external business research.
type Researcher struct {
	llm      llm.Client
	search   searcher
	snapshot *SnapshotFetcher
}

// Options configures a Researcher. SearchAPIKey/SearchCX are optional:
// without them the web tier is skipped and research starts at the
// knowledge tier.
type Options struct {
	LLM          llm.Client
	SearchAPIKey string
	SearchCX     string
	HTTPClient   *http.Client
}

// NewResearcher creates a new Researcher instance.
func NewResearcher(ctx context.Context, opts Options) (*Researcher, error) {
	r := &Researcher{
		llm:      opts.LLM,
		snapshot: NewSnapshotFetcher(opts.HTTPClient),
	}
	if opts.SearchAPIKey != "" && opts.SearchCX != "" {
		svc, err := customsearch.NewService(ctx, option.WithAPIKey(opts.SearchAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create customsearch service: %w", err)
		}
		r.search = &cseSearcher{svc: svc, cx: opts.SearchCX}
	}
	return r, nil
}

// Research builds a research report for the business. It never returns
// an error: each tier falls through to the next, and the last tier is a
// locally generated template.
func (r *Researcher) Research(ctx context.Context, req *types.SDRRequest) string {
	if r.search != nil && r.llm != nil {
		report, err := r.webResearch(ctx, req)
		if err == nil {
			return report
		}
		log.Printf("web research failed for %s, falling back: %v", req.BusinessName, err)
	}

	if r.llm != nil {
		report, err := r.knowledgeResearch(ctx, req)
		if err == nil {
			return report
		}
		log.Printf("knowledge research failed for %s, using local template: %v", req.BusinessName, err)
	}

	return FallbackReport(req)
}

// webResearch gathers search findings (plus a snapshot of the top result)
// and asks the model to synthesize them into a report.
func (r *Researcher) webResearch(ctx context.Context, req *types.SDRRequest) (string, error) {
	findings, err := r.gatherFindings(ctx, req)
	if err != nil {
		return "", err
	}

	template := prompts.MustGet("research.json", "web-research")
	prompt := prompts.Format(template, map[string]string{
		"BusinessName": req.BusinessName,
		"City":         req.City,
		"Address":      req.Address,
		"Findings":     findings,
	})

	report, err := r.llm.GenerateContent(ctx, prompt, llm.RoleResearch)
	if err != nil {
		return "", fmt.Errorf("research synthesis failed: %w", err)
	}
	return report, nil
}

func (r *Researcher) gatherFindings(ctx context.Context, req *types.SDRRequest) (string, error) {
	queries := []string{
		fmt.Sprintf("%q %s", req.BusinessName, req.City),
		fmt.Sprintf("%s %s reviews", req.BusinessName, req.City),
		fmt.Sprintf("%s official website", req.BusinessName),
	}

	var results []searchResult
	for _, q := range queries {
		found, err := r.search.Search(ctx, q, 3)
		if err != nil {
			continue // skip failed queries, judge what we got at the end
		}
		results = append(results, found...)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no search results for %s", req.BusinessName)
	}

	var b strings.Builder
	seen := make(map[string]bool)
	count := 0
	for _, res := range results {
		if seen[res.Link] || count >= maxFindings {
			continue
		}
		seen[res.Link] = true
		count++
		fmt.Fprintf(&b, "- %s: %s (%s)\n", res.Title, res.Snippet, res.Link)
	}

	// Snapshot the top result so the model sees actual page content,
	// not just snippets. Best effort.
	if text, err := r.snapshot.Fetch(ctx, results[0].Link); err == nil && text != "" {
		fmt.Fprintf(&b, "\nSnapshot of %s:\n%s\n", results[0].Link, text)
	}

	return b.String(), nil
}

// knowledgeResearch asks the model for an industry-pattern report without
// any web findings.
func (r *Researcher) knowledgeResearch(ctx context.Context, req *types.SDRRequest) (string, error) {
	template := prompts.MustGet("research.json", "knowledge-research")
	prompt := prompts.Format(template, map[string]string{
		"BusinessName": req.BusinessName,
		"City":         req.City,
		"Address":      req.Address,
	})

	report, err := r.llm.GenerateContent(ctx, prompt, llm.RoleResearch)
	if err != nil {
		return "", fmt.Errorf("knowledge research failed: %w", err)
	}
	return report, nil
}

// FallbackReport is the last-resort research report, generated locally
// when every model tier is unavailable.
func FallbackReport(req *types.SDRRequest) string {
	return fmt.Sprintf(`Research Report for %s (Generated from limited data)

BUSINESS OVERVIEW:
- Name: %s
- Location: %s
- Address: %s

ONLINE PRESENCE ASSESSMENT:
- Limited information available due to research limitations
- Likely has minimal online presence based on business type
- Opportunity exists for website development

RECOMMENDATIONS:
1. Create a professional website with business information
2. Establish Google My Business listing
3. Develop social media presence
4. Implement online booking/contact system
5. Focus on local SEO for %s market

NEXT STEPS:
- Contact business to verify current online presence
- Assess specific needs during consultation
- Propose tailored website solution

Note: This report was generated with limited research capabilities.
A more detailed analysis would be available with full web access.`,
		req.BusinessName, req.BusinessName, req.City, req.Address, req.City)
}
