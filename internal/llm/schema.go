package llm

// InvoiceSchema describes invoices and receipts. Top-level money fields are
// numbers; line item numerics tolerate strings because models quote them often.
func InvoiceSchema() map[string]any {
	lineItem := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": []any{"string", "null"}},
			"quantity":    looseNumberProp(),
			"unit_price":  looseNumberProp(),
			"total_price": looseNumberProp(),
		},
		"required": []string{"description", "total_price"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"vendor_name":     map[string]any{"type": "string"},
			"invoice_number":  map[string]any{"type": []any{"string", "null"}},
			"invoice_date":    map[string]any{"type": []any{"string", "null"}},
			"currency":        map[string]any{"type": "string"},
			"total_amount":    map[string]any{"type": "number"},
			"tax_amount":      map[string]any{"type": []any{"number", "null"}},
			"discount_amount": map[string]any{"type": []any{"number", "null"}},
			"line_items":      map[string]any{"type": "array", "items": lineItem},
		},
		"required": []string{"vendor_name", "total_amount", "currency", "line_items"},
	}
}

// ContractSchema describes a legal agreement analysis.
func ContractSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"contract_type":      map[string]any{"type": "string"},
			"parties_involved":   stringArrayProp(),
			"effective_date":     map[string]any{"type": []any{"string", "null"}},
			"key_terms":          stringArrayProp(),
			"risk_analysis":      map[string]any{"type": "string"},
			"overall_risk_level": map[string]any{"type": "string", "enum": []string{"Low", "Medium", "High"}},
		},
		"required": []string{"contract_type", "parties_involved", "risk_analysis", "overall_risk_level"},
	}
}

// ClassificationSchema constrains the model classifier to a label and a confidence.
func ClassificationSchema(labels []string) map[string]any {
	docType := map[string]any{"type": "string"}
	if len(labels) > 0 {
		docType["enum"] = labels
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_type": docType,
			"confidence":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"document_type", "confidence"},
	}
}

func looseNumberProp() map[string]any {
	return map[string]any{"type": []any{"number", "string", "null"}}
}

func stringArrayProp() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}
