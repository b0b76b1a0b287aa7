package classify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav/rapidreach/internal/llm"
	"github.com/arnav/rapidreach/internal/types"
)

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
	lastRole   llm.ModelRole
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, role llm.ModelRole) (string, error) {
	f.lastPrompt = prompt
	f.lastRole = role
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, role llm.ModelRole) (string, error) {
	return f.GenerateContent(ctx, prompt, role)
}

func (f *fakeLLM) GetModel(_ llm.ModelRole) string { return "fake-model" }
func (f *fakeLLM) Close() error                    { return nil }

func TestClassify_ValidOutput(t *testing.T) {
	model := &fakeLLM{response: `{
		"outcome": "agreed_to_email",
		"confidence": 0.92,
		"key_points": ["wants pricing details", "prefers email"],
		"next_action": "Send proposal email",
		"summary": "Owner asked for more info by email."
	}`}

	result, err := Classify(context.Background(), model, "agent: ...\nuser: send me an email", "Joe's Cafe")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeAgreedToEmail, result.Outcome)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
	assert.Len(t, result.KeyPoints, 2)
	assert.Equal(t, llm.RoleClassifier, model.lastRole)
	assert.Contains(t, model.lastPrompt, "Joe's Cafe")
	assert.Contains(t, model.lastPrompt, "user: send me an email")
}

func TestClassify_MarkdownFencedOutput(t *testing.T) {
	model := &fakeLLM{response: "```json\n{\"outcome\": \"interested\", \"confidence\": 0.8}\n```"}

	result, err := Classify(context.Background(), model, "transcript", "Joe's Cafe")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeInterested, result.Outcome)
}

func TestClassify_ModelErrorFallsBackAndReportsError(t *testing.T) {
	model := &fakeLLM{err: fmt.Errorf("model unavailable")}

	result, err := Classify(context.Background(), model, "transcript", "Joe's Cafe")
	assert.ErrorContains(t, err, "model unavailable")
	assert.Equal(t, types.OutcomeOther, result.Outcome)
	assert.InDelta(t, 0.1, result.Confidence, 1e-9)
	assert.Equal(t, "Manual review needed", result.NextAction)
	assert.Contains(t, result.Summary, "model unavailable")
}

func TestClassify_MalformedJSONFallsBack(t *testing.T) {
	model := &fakeLLM{response: "The outcome is probably interested."}

	result, err := Classify(context.Background(), model, "transcript", "Joe's Cafe")
	require.NoError(t, err, "bad model output is handled locally")
	assert.Equal(t, types.OutcomeOther, result.Outcome)
	assert.Equal(t, []string{"Classification failed"}, result.KeyPoints)
}

func TestClassify_UnknownOutcomeRejectedBySchema(t *testing.T) {
	model := &fakeLLM{response: `{"outcome": "maybe_later", "confidence": 0.5}`}

	result, err := Classify(context.Background(), model, "transcript", "Joe's Cafe")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeOther, result.Outcome)
	assert.Contains(t, result.Summary, "invalid classification")
}

func TestClassify_ConfidenceOutOfRangeRejected(t *testing.T) {
	model := &fakeLLM{response: `{"outcome": "interested", "confidence": 1.7}`}

	result, err := Classify(context.Background(), model, "transcript", "Joe's Cafe")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeOther, result.Outcome)
}

func TestClassify_MissingOutcomeRejected(t *testing.T) {
	model := &fakeLLM{response: `{"confidence": 0.9, "summary": "no outcome field"}`}

	result, err := Classify(context.Background(), model, "transcript", "Joe's Cafe")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeOther, result.Outcome)
}
