package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav/rapidreach/internal/pipeline"
	"github.com/arnav/rapidreach/internal/session"
	"github.com/arnav/rapidreach/internal/types"
)

// newTestServer builds a server over a fully offline pipeline: every
// collaborator is nil, so steps fail or skip structurally and runs
// finish instantly.
func newTestServer(t *testing.T, mutate func(*Config)) *httptest.Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := Config{Pipeline: pipeline.Options{}}
	if mutate != nil {
		mutate(&cfg)
	}
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeReport(t *testing.T, resp *http.Response) *pipeline.Report {
	t.Helper()
	defer resp.Body.Close()
	var report pipeline.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	return &report
}

func TestHandleRunSDR(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/run_sdr", &types.SDRRequest{
		BusinessName: "Joe's Diner",
		SkipCall:     true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decodeReport(t, resp)
	assert.Equal(t, "success", report.Status)
	assert.NotEmpty(t, report.SessionID)
	assert.Len(t, report.Steps, 8)
	assert.Contains(t, report.StepStatus("phone_call"), "skipped")
}

func TestHandleRunSDR_InvalidBody(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/run_sdr", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleRunSDR_MissingBusinessName(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/run_sdr", &types.SDRRequest{Phone: "+15551234567"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	report := decodeReport(t, resp)
	assert.Equal(t, "error", report.Status)
	assert.NotEmpty(t, report.Message)
}

func TestHandleRunSDRStream(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/run_sdr/stream", &types.SDRRequest{
		BusinessName: "Joe's Diner",
		SkipCall:     true,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	stream := string(body)

	assert.Contains(t, stream, "event: progress")
	assert.Contains(t, stream, "Step 1/8")
	assert.Contains(t, stream, "Step 8/8")
	assert.Contains(t, stream, "event: report")
	assert.Contains(t, stream, "event: complete")
}

func TestHandleRunSDRStream_InvalidRequest(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/run_sdr/stream", &types.SDRRequest{})
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "event: error")
}

func TestHandleRunSDRBatch(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/run_sdr/batch", &BatchRequest{
		Leads: []*types.SDRRequest{
			{BusinessName: "Joe's Diner", SkipCall: true},
			{BusinessName: "Ace Plumbing", SkipCall: true},
			{BusinessName: ""},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var batch BatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&batch))
	require.Len(t, batch.Reports, 3)

	// Reports come back in lead order.
	assert.Equal(t, "Joe's Diner", batch.Reports[0].BusinessName)
	assert.Equal(t, "Ace Plumbing", batch.Reports[1].BusinessName)
	assert.Equal(t, "error", batch.Reports[2].Status)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
}

func TestHandleRunSDRBatch_EmptyLeads(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/run_sdr/batch", &BatchRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleRunSDRBatch_TooManyLeads(t *testing.T) {
	ts := newTestServer(t, nil)

	leads := make([]*types.SDRRequest, maxBatchLeads+1)
	for i := range leads {
		leads[i] = &types.SDRRequest{BusinessName: fmt.Sprintf("Lead %d", i), SkipCall: true}
	}
	resp := postJSON(t, ts.URL+"/run_sdr/batch", &BatchRequest{Leads: leads})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleListSessions_Memory(t *testing.T) {
	ts := newTestServer(t, nil)

	report := decodeReport(t, postJSON(t, ts.URL+"/run_sdr", &types.SDRRequest{
		BusinessName: "Joe's Diner",
		SkipCall:     true,
	}))

	resp, err := http.Get(ts.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list SessionListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, report.SessionID, list.Sessions[0].SessionID)
	assert.Equal(t, "Joe's Diner", list.Sessions[0].BusinessName)
}

func TestHandleListSessions_BadLimit(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/sessions?limit=zero")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetSession(t *testing.T) {
	ts := newTestServer(t, nil)

	report := decodeReport(t, postJSON(t, ts.URL+"/run_sdr", &types.SDRRequest{
		BusinessName: "Joe's Diner",
		SkipCall:     true,
	}))

	resp, err := http.Get(ts.URL + "/sessions/" + report.SessionID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotNil(t, got.Session)
	assert.Equal(t, "Joe's Diner", got.Session.BusinessName)
}

func TestHandleGetSession_ReportsDeckSize(t *testing.T) {
	store := session.NewStore()
	store.Put("s1", &session.Record{
		Result: &types.SDRResult{SessionID: "s1", BusinessName: "Joe's Diner"},
		Deck: &types.Deck{
			Filename: "Joes_Diner_Business_Solution.pptx",
			FileData: bytes.Repeat([]byte{0x50}, 1234),
		},
	})
	ts := newTestServer(t, func(cfg *Config) {
		cfg.Pipeline.Store = store
	})

	resp, err := http.Get(ts.URL + "/sessions/s1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Joes_Diner_Business_Solution.pptx", got.DeckFilename)
	assert.Equal(t, 1234, got.DeckBytes)
}

func TestHandleGetSession_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/sessions/no-such-session")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
}

func TestAuth_ProtectsRunEndpoints(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) {
		cfg.APISecret = "test-secret"
	})

	resp := postJSON(t, ts.URL+"/run_sdr", &types.SDRRequest{
		BusinessName: "Joe's Diner",
		SkipCall:     true,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "run without token is rejected")

	// Reads stay open.
	getResp, err := http.Get(ts.URL + "/sessions")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	// A token minted from the shared secret gets through.
	token, err := NewJWTService("test-secret", 0).GenerateToken("ui-client")
	require.NoError(t, err)

	body, err := json.Marshal(&types.SDRRequest{BusinessName: "Joe's Diner", SkipCall: true})
	require.NoError(t, err)
	req, err := http.NewRequest("POST", ts.URL+"/run_sdr", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	authResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authResp.Body.Close()
	assert.Equal(t, http.StatusOK, authResp.StatusCode)
}

func TestRateLimit_RunEndpoint(t *testing.T) {
	// Leave rate limiting on defaults: /run_sdr allows a burst of 3.
	cfg := Config{Pipeline: pipeline.Options{}}
	ts := httptest.NewServer(New(cfg).Handler())
	defer ts.Close()

	var last *http.Response
	for i := 0; i < 4; i++ {
		last = postJSON(t, ts.URL+"/run_sdr", &types.SDRRequest{
			BusinessName: "Joe's Diner",
			SkipCall:     true,
		})
		last.Body.Close()
	}

	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	assert.NotEmpty(t, last.Header.Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest("OPTIONS", ts.URL+"/run_sdr", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
