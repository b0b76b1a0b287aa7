package deck

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	deckBytes := []byte("PK\x03\x04 fake pptx")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-deck", r.URL.Path)

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Joe's Cafe", req.BusinessName)
		assert.Equal(t, "interested", req.CallOutcome)

		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"filename":      "Joes_Cafe_Business_Solution.pptx",
			"deck_content":  map[string]any{"title": "Joe's Cafe"},
			"deck_file_b64": base64.StdEncoding.EncodeToString(deckBytes),
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	deck, err := client.Generate(context.Background(), &GenerateRequest{
		SessionID:       "s-1",
		BusinessName:    "Joe's Cafe",
		ResearchSummary: "research",
		CallTranscript:  "transcript",
		CallOutcome:     "interested",
	})
	require.NoError(t, err)
	assert.Equal(t, "Joes_Cafe_Business_Solution.pptx", deck.Filename)
	assert.Equal(t, deckBytes, deck.FileData)
	assert.Equal(t, "Joe's Cafe", deck.Content["title"])
}

func TestGenerate_DefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	deck, err := client.Generate(context.Background(), &GenerateRequest{BusinessName: "Joe's Cafe"})
	require.NoError(t, err)
	assert.Equal(t, "Joe's Cafe_Business_Solution.pptx", deck.Filename)
	assert.Empty(t, deck.FileData)
}

func TestGenerate_ServiceReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "template not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	_, err := client.Generate(context.Background(), &GenerateRequest{BusinessName: "Joe's Cafe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template not found")
}

func TestGenerate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	_, err := client.Generate(context.Background(), &GenerateRequest{BusinessName: "Joe's Cafe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGenerate_BadArtifactEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "deck_file_b64": "!!not-base64!!"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	_, err := client.Generate(context.Background(), &GenerateRequest{BusinessName: "Joe's Cafe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode deck artifact")
}

func TestGenerate_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", &http.Client{})
	_, err := client.Generate(context.Background(), &GenerateRequest{BusinessName: "Joe's Cafe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestGenerate_MalformedJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	_, err := client.Generate(context.Background(), &GenerateRequest{BusinessName: "Joe's Cafe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode deck response")
}
