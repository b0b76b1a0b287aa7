package types

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallOutcome_KnownValues(t *testing.T) {
	tests := []struct {
		input    string
		expected CallOutcome
	}{
		{"interested", OutcomeInterested},
		{"agreed_to_email", OutcomeAgreedToEmail},
		{"not_interested", OutcomeNotInterested},
		{"no_answer", OutcomeNoAnswer},
		{"issue_appeared", OutcomeIssue},
		{"other", OutcomeOther},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCallOutcome(tt.input))
		})
	}
}

func TestParseCallOutcome_UnknownFallsBackToOther(t *testing.T) {
	assert.Equal(t, OutcomeOther, ParseCallOutcome("enthusiastic"))
	assert.Equal(t, OutcomeOther, ParseCallOutcome(""))
	assert.Equal(t, OutcomeOther, ParseCallOutcome("INTERESTED"))
}

func TestValidateSDRRequest_Valid(t *testing.T) {
	req := &SDRRequest{
		BusinessName: "Joe's Cafe",
		Phone:        "5551234567",
		Email:        "joe@example.com",
		CallbackURL:  "http://localhost:8000/agent_callback",
	}
	require.NoError(t, ValidateSDRRequest(req))
}

func TestValidateSDRRequest_MissingBusinessName(t *testing.T) {
	err := ValidateSDRRequest(&SDRRequest{Phone: "5551234567"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BusinessName")
}

func TestValidateSDRRequest_BadEmail(t *testing.T) {
	err := ValidateSDRRequest(&SDRRequest{BusinessName: "Joe's Cafe", Email: "not-an-email"})
	require.Error(t, err)
}

func TestValidateSDRRequest_Nil(t *testing.T) {
	assert.Error(t, ValidateSDRRequest(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abcde", Truncate("abcdefgh", 5))
	assert.Equal(t, "", Truncate("", 5))
}

func TestTruncate_NeverSplitsRunes(t *testing.T) {
	// "é" is two bytes; a byte-wise cut at 5 would leave half of it.
	assert.Equal(t, "abcd", Truncate("abcdé", 5))
	assert.Equal(t, "abcdé", Truncate("abcdé", 6))

	long := strings.Repeat("café über réservé ", 400)
	for _, max := range []int{4999, 5000, 5001} {
		got := Truncate(long, max)
		assert.True(t, utf8.ValidString(got), "cut at %d produced invalid UTF-8", max)
		assert.LessOrEqual(t, len(got), max)
	}
}
