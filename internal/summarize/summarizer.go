package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"legalbrief-backend/internal/llm"
	"legalbrief-backend/internal/shared/telemetry"
)

const (
	// maxInputChars keeps the prompt inside the model's context window.
	maxInputChars    = 15000
	truncationMarker = "\n\n[Document truncated for analysis]"
)

// Summarizer turns extracted document text into a structured Summary.
//
// Summarize never returns an error: on any failure (missing credentials,
// transport error, empty response, bad JSON, schema mismatch) it returns a
// degraded Summary that flags the failure within its content. The pipeline
// therefore always reaches its success terminal state.
type Summarizer struct {
	LLM llm.Client
}

// NewSummarizer constructs a Summarizer over the given LLM client.
func NewSummarizer(client llm.Client) *Summarizer {
	return &Summarizer{LLM: client}
}

// Summarize analyzes the document text and returns a Summary.
func (s *Summarizer) Summarize(ctx context.Context, text string) Summary {
	input := Truncate(text)

	raw, err := s.LLM.SummarizeDocument(ctx, input)
	if err != nil {
		return degradedSummary(err)
	}
	if len(raw) == 0 {
		return degradedSummary(fmt.Errorf("empty model response"))
	}

	if err := validateSummaryJSON(raw); err != nil {
		return degradedSummary(err)
	}

	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return degradedSummary(err)
	}
	summary.Degraded = false
	summary.normalize()
	return summary
}

// Truncate caps text at the input budget, appending a marker when cut.
// The cut never splits a UTF-8 sequence.
func Truncate(text string) string {
	if len(text) <= maxInputChars {
		return text
	}
	cut := maxInputChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncationMarker
}

func degradedSummary(cause error) Summary {
	telemetry.Error("summarize.degraded", map[string]any{
		"error": cause.Error(),
	})
	return Summary{
		Parties:     []Party{},
		Obligations: []string{"Error: Failed to analyze document"},
		Dates:       []DateItem{},
		Terms:       []Term{},
		Risks: []Risk{
			{
				Title:       "Analysis Error",
				Description: fmt.Sprintf("Failed to analyze document: %v", cause),
				Severity:    SeverityHigh,
			},
		},
		Raw:      "Failed to generate summary due to an error.",
		Degraded: true,
	}
}
