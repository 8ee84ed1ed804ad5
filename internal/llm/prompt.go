package llm

import (
	"encoding/json"
	"strings"
)

// BuildSystemPrompt wraps the strategy instructions with the output contract.
func BuildSystemPrompt(req ExtractRequest) string {
	parts := []string{
		strings.TrimSpace(req.Instructions),
		"Return ONLY JSON that matches the provided JSON Schema.",
		"Do not wrap the JSON in Markdown.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt carries the document text.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	b.WriteString("Document text:\n")
	b.WriteString(strings.TrimSpace(req.Text))
	return b.String()
}

// BuildSchemaPrompt renders the schema for providers that take it as a message.
func BuildSchemaPrompt(schema map[string]any) string {
	return "JSON Schema:\n" + mustJSON(schema)
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
