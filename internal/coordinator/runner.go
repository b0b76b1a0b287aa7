package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/arnav/rapidreach/internal/llm"
)

// LLMRunner drives a coordinated run through the LLM client. The tool
// budget is stated in the prompt; the model is expected to emit a
// STEP_DONE marker after each step it completes.
type LLMRunner struct {
	client llm.Client
}

// NewLLMRunner creates a runner over the given client.
func NewLLMRunner(client llm.Client) *LLMRunner {
	return &LLMRunner{client: client}
}

// Run sends the instruction with the budget and marker protocol
// prepended and returns the model's output transcript.
func (r *LLMRunner) Run(ctx context.Context, instruction string, toolBudget int) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("llm client not configured")
	}
	prompt := fmt.Sprintf(
		"You may take at most %d tool actions. After completing each step, emit the literal token STEP_DONE[<step name>] on its own line.\n\n%s",
		toolBudget, instruction)
	out, err := r.client.GenerateContent(ctx, prompt, llm.RoleDraft)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
