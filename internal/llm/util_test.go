package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json untouched", `{"outcome": "other"}`, `{"outcome": "other"}`},
		{"json fence", "```json\n{\"outcome\": \"other\"}\n```", `{"outcome": "other"}`},
		{"bare fence", "```\n{\"outcome\": \"other\"}\n```", `{"outcome": "other"}`},
		{"fence with language tag", "```json5\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestDefaultConfig_Roles(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.NotEmpty(t, cfg.GetModel(RoleResearch))
	assert.NotEmpty(t, cfg.GetModel(RoleDraft))
	assert.NotEmpty(t, cfg.GetModel(RoleClassifier))
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("CLASSIFIER_MODEL", "gemini-override")
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-override", cfg.GetModel(RoleClassifier))
}

func TestConfig_GetModel_FallsBackToClassifier(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelRole]string{RoleClassifier: "gemini-2.5-flash"},
	}
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(RoleResearch))
}

func TestConfig_WithModel_DoesNotMutateOriginal(t *testing.T) {
	cfg := DefaultConfig()
	original := cfg.GetModel(RoleDraft)
	next := cfg.WithModel(RoleDraft, "gemini-other")
	assert.Equal(t, "gemini-other", next.GetModel(RoleDraft))
	assert.Equal(t, original, cfg.GetModel(RoleDraft))
}
