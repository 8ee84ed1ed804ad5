package llm

import "context"

// Schema names. Providers that support named structured outputs pass them through.
const (
	SchemaInvoice        = "invoice_extraction"
	SchemaContract       = "contract_analysis"
	SchemaClassification = "document_classification"
)

// ExtractRequest is one schema-constrained generation.
type ExtractRequest struct {
	Text         string
	Instructions string
	SchemaName   string
	Schema       map[string]any
}

// Generator is what the pipeline needs from a model provider.
// Extract returns JSON that validated against req.Schema. Complete is unconstrained.
type Generator interface {
	Extract(ctx context.Context, req ExtractRequest) ([]byte, error)
	Complete(ctx context.Context, prompt string) (string, error)
}
