// Package classify turns a call transcript into a structured outcome
// classification. The model output is schema-validated; anything the
// model gets wrong degrades to an "other" classification. Provider
// errors are surfaced separately so the caller can record the failure.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/xeipuuv/gojsonschema"

	"github.com/arnav/rapidreach/internal/llm"
	"github.com/arnav/rapidreach/internal/prompts"
	"github.com/arnav/rapidreach/internal/types"
)

// classificationSchema constrains the model's JSON output. The outcome
// enum must stay in sync with types.CallOutcome.
const classificationSchema = `{
	"type": "object",
	"required": ["outcome"],
	"properties": {
		"outcome": {
			"type": "string",
			"enum": ["interested", "agreed_to_email", "not_interested", "no_answer", "issue_appeared", "other"]
		},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"key_points": {"type": "array", "items": {"type": "string"}},
		"next_action": {"type": "string"},
		"summary": {"type": "string"}
	}
}`

// Classify runs outcome classification over a transcript. The returned
// classification is always usable: malformed JSON and schema violations
// degrade to the fallback locally. A provider error also returns the
// fallback, but is reported so the owning step can record the failure.
func Classify(ctx context.Context, client llm.Client, transcript, businessName string) (*types.ConversationClassification, error) {
	template := prompts.MustGet("classify.json", "classify-call")
	prompt := prompts.Format(template, map[string]string{
		"BusinessName": businessName,
		"Transcript":   transcript,
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.RoleClassifier)
	if err != nil {
		log.Printf("classification failed for %s: %v", businessName, err)
		return fallback(fmt.Sprintf("Classification error: %v", err)), err
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := validateClassification(cleaned); err != nil {
		log.Printf("classification output rejected for %s: %v", businessName, err)
		return fallback(fmt.Sprintf("Classification error: %v", err)), nil
	}

	var result types.ConversationClassification
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		log.Printf("classification output unparseable for %s: %v", businessName, err)
		return fallback(fmt.Sprintf("Classification error: %v", err)), nil
	}

	// enum is schema-enforced, but normalize anyway
	result.Outcome = types.ParseCallOutcome(string(result.Outcome))
	return &result, nil
}

// validateClassification checks the model output against the schema.
func validateClassification(jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(classificationSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed during load: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("invalid classification: %s: %s", first.Field(), first.Description())
	}
	return nil
}

func fallback(summary string) *types.ConversationClassification {
	return &types.ConversationClassification{
		Outcome:    types.OutcomeOther,
		Confidence: 0.1,
		KeyPoints:  []string{"Classification failed"},
		NextAction: "Manual review needed",
		Summary:    summary,
	}
}
