package steps

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMatchesRegistry(t *testing.T) {
	require.Len(t, Order, Total)
	require.Len(t, Registry, Total)

	for i, name := range Order {
		def, ok := Registry[name]
		require.True(t, ok, "step %s missing from registry", name)
		assert.Equal(t, name, def.Name)
		assert.Equal(t, i+1, def.Position, "position of %s", name)
		assert.NotEmpty(t, def.Category)
	}
}

func TestSkipReason(t *testing.T) {
	tests := []struct {
		name   string
		step   string
		state  RunState
		reason string
	}{
		{"call runs with phone", StepPhoneCall, RunState{HasPhone: true}, ""},
		{"call skipped on request", StepPhoneCall, RunState{HasPhone: true, SkipCall: true}, "skip_call requested"},
		{"call skipped without phone", StepPhoneCall, RunState{}, "no phone number provided"},
		{"classify runs with transcript", StepClassify, RunState{HasTranscript: true}, ""},
		{"classify skipped without transcript", StepClassify, RunState{}, "no transcript available"},
		{"research always runs", StepResearch, RunState{}, ""},
		{"email always runs", StepEmail, RunState{}, ""},
		{"save always runs", StepSave, RunState{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, SkipReason(tt.step, tt.state))
		})
	}
}

func TestStatusFormatting(t *testing.T) {
	assert.Equal(t, "completed", StatusCompleted)
	assert.Equal(t, "completed (to owner@joescafe.com)", Completedf("(to %s)", "owner@joescafe.com"))
	assert.Equal(t, "failed: boom", Failed(fmt.Errorf("boom")))
	assert.Equal(t, "skipped: no phone number provided", Skipped("no phone number provided"))
}
