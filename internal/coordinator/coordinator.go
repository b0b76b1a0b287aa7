// Package coordinator is the retry/repair supervisor for LLM-driven
// pipeline runs. When the step sequence is delegated to a multi-tool
// coordinator instead of the direct executor, the model may silently
// drop steps; the supervisor checks the output transcript for per-step
// completion markers and re-drives any step that left no marker, up to
// a bounded number of rounds. It is a best-effort repair layer, not a
// correctness guarantee.
package coordinator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/arnav/rapidreach/internal/pipeline/steps"
)

// maxRounds bounds how many repair rounds run after the initial pass.
const maxRounds = 3

// retryToolBudget caps tool calls during a narrowed single-step retry.
const retryToolBudget = 4

// Runner invokes the multi-tool coordinator with an instruction and a
// tool-call budget, returning its output transcript.
type Runner interface {
	Run(ctx context.Context, instruction string, toolBudget int) (string, error)
}

// StepState tracks one required step through the repair rounds.
type StepState string

const (
	StatePending   StepState = "pending"
	StateConfirmed StepState = "confirmed"
	StateExhausted StepState = "exhausted"
)

// Marker is the literal completion token the coordinator must emit to
// prove a step executed.
func Marker(step string) string {
	return fmt.Sprintf("STEP_DONE[%s]", step)
}

// Result is the supervisor's final view of a coordinated run.
type Result struct {
	States   map[string]StepState
	Rounds   int // repair rounds actually run
	Output   string
	Warnings []string
}

// Confirmed reports whether every required step was confirmed.
func (r *Result) Confirmed() bool {
	for _, st := range r.States {
		if st != StateConfirmed {
			return false
		}
	}
	return true
}

// Supervisor drives a Runner and repairs missing steps.
type Supervisor struct {
	runner   Runner
	required []string
}

// NewSupervisor creates a supervisor for the given required steps.
// A nil or empty step list defaults to the full pipeline sequence.
func NewSupervisor(runner Runner, required []string) *Supervisor {
	if len(required) == 0 {
		required = steps.Order
	}
	return &Supervisor{runner: runner, required: required}
}

// Supervise runs the coordinator once with the full instruction, then
// up to maxRounds narrowed retries for steps whose markers are missing.
// Steps still unconfirmed after all rounds end exhausted, surfaced as
// warnings; Supervise itself fails only if the initial run fails.
func (s *Supervisor) Supervise(ctx context.Context, instruction string, toolBudget int) (*Result, error) {
	result := &Result{States: make(map[string]StepState, len(s.required))}
	for _, step := range s.required {
		result.States[step] = StatePending
	}

	output, err := s.runner.Run(ctx, instruction, toolBudget)
	if err != nil {
		return nil, fmt.Errorf("coordinator run failed: %w", err)
	}
	result.Output = output
	s.confirm(result, output)

	for round := 1; round <= maxRounds; round++ {
		missing := s.pending(result)
		if len(missing) == 0 {
			break
		}
		result.Rounds = round
		log.Printf("repair round %d/%d: re-driving steps %v", round, maxRounds, missing)

		for _, step := range missing {
			retryOutput, err := s.runner.Run(ctx, retryInstruction(step), retryToolBudget)
			if err != nil {
				log.Printf("repair of step %s failed: %v", step, err)
				continue
			}
			result.Output += "\n" + retryOutput
			s.confirm(result, retryOutput)
		}
	}

	for _, step := range s.required {
		if result.States[step] == StatePending {
			result.States[step] = StateExhausted
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("step %s not confirmed after %d repair rounds", step, maxRounds))
		}
	}
	return result, nil
}

// confirm promotes every pending step whose marker appears in output.
// Confirmed steps never regress.
func (s *Supervisor) confirm(result *Result, output string) {
	for _, step := range s.required {
		if result.States[step] == StateConfirmed {
			continue
		}
		if strings.Contains(output, Marker(step)) {
			result.States[step] = StateConfirmed
		}
	}
}

// pending returns unconfirmed steps in declared order.
func (s *Supervisor) pending(result *Result) []string {
	var missing []string
	for _, step := range s.required {
		if result.States[step] == StatePending {
			missing = append(missing, step)
		}
	}
	return missing
}

func retryInstruction(step string) string {
	return fmt.Sprintf(
		"The %s step did not run in the previous pass. Execute ONLY the %s step now, "+
			"then emit the literal token %s to confirm.", step, step, Marker(step))
}
