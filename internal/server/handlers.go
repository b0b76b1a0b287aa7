package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/arnav/rapidreach/internal/pipeline"
	"github.com/arnav/rapidreach/internal/types"
)

// Batch runs are bounded so one request cannot queue hours of calls.
const (
	maxBatchLeads       = 20
	defaultBatchWorkers = 3
)

// BatchRequest represents the request body for /run_sdr/batch.
type BatchRequest struct {
	Leads         []*types.SDRRequest `json:"leads"`
	MaxConcurrent int                 `json:"max_concurrent,omitempty"`
}

// BatchResponse represents the response for /run_sdr/batch.
type BatchResponse struct {
	Reports   []*pipeline.Report `json:"reports"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

// SessionListResponse represents the response for /sessions.
type SessionListResponse struct {
	Sessions []*types.SDRResult `json:"sessions"`
	Count    int                `json:"count"`
}

// SessionResponse represents the response for /sessions/{id}.
type SessionResponse struct {
	Session      *types.SDRResult `json:"session"`
	DeckFilename string           `json:"deck_filename,omitempty"`
	DeckBytes    int              `json:"deck_bytes,omitempty"`
}

// handleRunSDR runs the full outreach sequence and returns the step report.
func (s *Server) handleRunSDR(w http.ResponseWriter, r *http.Request) {
	var req types.SDRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	report := pipeline.New(s.opts).Run(r.Context(), &req)
	if report.Status == "error" {
		s.jsonResponse(w, http.StatusBadRequest, report)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleRunSDRStream runs the pipeline with step progress streamed as SSE.
func (s *Server) handleRunSDRStream(w http.ResponseWriter, r *http.Request) {
	var req types.SDRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sw, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Progress callbacks arrive on the run's own goroutine, so writing
	// to the stream inline is safe.
	opts := s.opts
	opts.OnProgress = sw.WriteProgress

	report := pipeline.New(opts).Run(r.Context(), &req)
	if report.Status == "error" {
		sw.WriteError(report.Message)
		return
	}
	sw.WriteEvent("report", report) //nolint:errcheck
	sw.WriteComplete(report.SessionID, report.Status)
}

// handleRunSDRBatch runs the pipeline for several leads concurrently.
// Reports come back in lead order; a bad lead fails its own slot only.
func (s *Server) handleRunSDRBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Leads) == 0 {
		s.errorJSON(w, &ErrValidation{Field: "leads", Message: "at least one lead is required"})
		return
	}
	if len(req.Leads) > maxBatchLeads {
		s.errorJSON(w, &ErrBatchTooLarge{Count: len(req.Leads), Max: maxBatchLeads})
		return
	}

	workers := req.MaxConcurrent
	if workers <= 0 {
		workers = defaultBatchWorkers
	}

	log.Printf("Starting batch run: %d leads, %d workers", len(req.Leads), workers)

	reports := make([]*pipeline.Report, len(req.Leads))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(workers)
	for i, lead := range req.Leads {
		g.Go(func() error {
			reports[i] = pipeline.New(s.opts).Run(ctx, lead)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	resp := BatchResponse{Reports: reports}
	for _, rep := range reports {
		if rep.Status == "success" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListSessions lists recent outreach sessions, newest first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorJSON(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	if s.db != nil {
		sessions, err := s.db.ListSessions(r.Context(), limit)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		s.jsonResponse(w, http.StatusOK, SessionListResponse{Sessions: sessions, Count: len(sessions)})
		return
	}

	records := s.store.List()
	if len(records) > limit {
		records = records[:limit]
	}
	sessions := make([]*types.SDRResult, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, rec.Result)
	}
	s.jsonResponse(w, http.StatusOK, SessionListResponse{Sessions: sessions, Count: len(sessions)})
}

// handleGetSession returns one session. The in-memory store is checked
// first since it also holds the generated deck; the database covers
// sessions from earlier process lifetimes.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.errorJSON(w, &ErrValidation{Field: "id", Message: "session ID is required"})
		return
	}

	if rec := s.store.Get(id); rec != nil {
		resp := SessionResponse{Session: rec.Result}
		if rec.Deck != nil {
			resp.DeckFilename = rec.Deck.Filename
			resp.DeckBytes = len(rec.Deck.FileData)
		}
		s.jsonResponse(w, http.StatusOK, resp)
		return
	}

	if s.db != nil {
		sess, err := s.db.GetSession(r.Context(), id)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if sess != nil {
			s.jsonResponse(w, http.StatusOK, SessionResponse{Session: sess})
			return
		}
	}

	s.errorJSON(w, &ErrSessionNotFound{SessionID: id})
}
