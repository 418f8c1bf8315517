package llm

import _ "embed"

//go:embed prompts/summary_v1.txt
var summaryPromptV1 string

// SummaryPrompt returns the system instruction for legal document analysis.
func SummaryPrompt() string {
	return summaryPromptV1
}
