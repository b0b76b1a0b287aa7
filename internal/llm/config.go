// Package llm provides centralized LLM configuration and client abstractions.
// Each pipeline concern maps to a model role so models can be swapped per
// task without touching call sites.
package llm

import "os"

// ModelRole identifies which pipeline concern a call serves.
type ModelRole string

const (
	// RoleResearch is used for business research (search-heavy, long output)
	RoleResearch ModelRole = "research"
	// RoleDraft is used for proposal drafting (strong writing model)
	RoleDraft ModelRole = "draft"
	// RoleClassifier is used for cheap classification and fact-checking
	RoleClassifier ModelRole = "classifier"
)

// Provider represents an LLM provider
type Provider string

// Supported providers
const (
	ProviderGemini Provider = "gemini"
)

// Config holds the model assignment for the service
type Config struct {
	Provider Provider
	Models   map[ModelRole]string
}

// DefaultConfig returns the default Gemini role assignment, honoring
// RESEARCH_MODEL / DRAFT_MODEL / CLASSIFIER_MODEL env overrides.
func DefaultConfig() *Config {
	cfg := &Config{
		Provider: ProviderGemini,
		Models: map[ModelRole]string{
			RoleResearch:   "gemini-2.5-pro",
			RoleDraft:      "gemini-2.5-pro",
			RoleClassifier: "gemini-2.5-flash",
		},
	}
	for role, env := range map[ModelRole]string{
		RoleResearch:   "RESEARCH_MODEL",
		RoleDraft:      "DRAFT_MODEL",
		RoleClassifier: "CLASSIFIER_MODEL",
	} {
		if v := os.Getenv(env); v != "" {
			cfg.Models[role] = v
		}
	}
	return cfg
}

// GetModel returns the model name for a role, falling back to the
// classifier model when a role has no assignment.
func (c *Config) GetModel(role ModelRole) string {
	if model, ok := c.Models[role]; ok {
		return model
	}
	if model, ok := c.Models[RoleClassifier]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one role reassigned.
func (c *Config) WithModel(role ModelRole, model string) *Config {
	next := &Config{Provider: c.Provider, Models: make(map[ModelRole]string, len(c.Models))}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[role] = model
	return next
}
