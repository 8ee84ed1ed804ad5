package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/joseph-ayodele/docmind/internal/entity"
)

// SanitizeJSON repairs the usual model slips for the named schema so the
// document can still validate:
// - renames known synonyms (total -> total_amount, items -> line_items, ...)
// - coerces quoted or accounting-style money into numbers
// - turns null arrays into empty ones
// - removes unknown top-level keys
//
// It returns the rewritten document and a list of what was touched.
func SanitizeJSON(schemaName string, raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var touched []string
	switch schemaName {
	case SchemaInvoice:
		touched = sanitizeInvoice(m)
	case SchemaContract:
		touched = sanitizeContract(m)
	case SchemaClassification:
		touched = sanitizeClassification(m)
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, touched, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(touched) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "schema", schemaName, "touched", touched)
	}
	return out, touched, nil
}

func sanitizeInvoice(m map[string]any) []string {
	touched := make([]string, 0, 8)
	rename := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			touched = append(touched, from+"->"+to)
		}
	}

	rename("vendor", "vendor_name")
	rename("merchant_name", "vendor_name")
	rename("total", "total_amount")
	rename("tax", "tax_amount")
	rename("vat", "tax_amount")
	rename("discount", "discount_amount")
	rename("items", "line_items")
	rename("date", "invoice_date")
	rename("currency_code", "currency")

	for _, k := range []string{"total_amount", "tax_amount", "discount_amount"} {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
		case nil:
			if k == "total_amount" {
				m[k] = 0.0
				touched = append(touched, k+"(null)")
			}
		case string:
			a := entity.ParseAmount(t)
			if a.Valid() {
				m[k] = a.Float64()
				touched = append(touched, k+"(string)")
			} else if k != "total_amount" {
				delete(m, k)
				touched = append(touched, k+"(unparseable)")
			}
		default:
			if k != "total_amount" {
				delete(m, k)
				touched = append(touched, k+"(type)")
			}
		}
	}

	switch v := m["currency"].(type) {
	case string:
		m["currency"] = strings.ToUpper(strings.TrimSpace(v))
	case nil:
		m["currency"] = ""
		touched = append(touched, "currency(missing)")
	}
	if m["vendor_name"] == nil {
		m["vendor_name"] = ""
		touched = append(touched, "vendor_name(missing)")
	}
	if m["line_items"] == nil {
		m["line_items"] = []any{}
		touched = append(touched, "line_items(null)")
	}
	if items, ok := m["line_items"].([]any); ok {
		for _, it := range items {
			row, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if _, has := row["description"]; !has {
				row["description"] = ""
			}
			if _, has := row["total_price"]; !has {
				row["total_price"] = nil
			}
		}
	}

	touched = append(touched, dropUnknown(m, InvoiceSchema())...)
	return touched
}

func sanitizeContract(m map[string]any) []string {
	touched := make([]string, 0, 4)
	for _, k := range []string{"parties_involved", "key_terms"} {
		switch t := m[k].(type) {
		case nil:
			m[k] = []any{}
			touched = append(touched, k+"(null)")
		case string:
			m[k] = []any{t}
			touched = append(touched, k+"(string)")
		}
	}
	if v, ok := m["overall_risk_level"].(string); ok {
		level := canonicalRiskLevel(v)
		if level != v {
			m["overall_risk_level"] = level
			touched = append(touched, "overall_risk_level")
		}
	}
	touched = append(touched, dropUnknown(m, ContractSchema())...)
	return touched
}

func sanitizeClassification(m map[string]any) []string {
	var touched []string
	if v, ok := m["document_type"].(string); ok {
		if norm := strings.ToLower(strings.TrimSpace(v)); norm != v {
			m["document_type"] = norm
			touched = append(touched, "document_type")
		}
	}
	if c, ok := m["confidence"].(float64); ok {
		switch {
		case c < 0:
			m["confidence"] = 0.0
			touched = append(touched, "confidence(clamped)")
		case c > 1:
			m["confidence"] = 1.0
			touched = append(touched, "confidence(clamped)")
		}
	}
	touched = append(touched, dropUnknown(m, ClassificationSchema(nil))...)
	return touched
}

func canonicalRiskLevel(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "low":
		return entity.RiskLow
	case "medium", "moderate":
		return entity.RiskMedium
	case "high":
		return entity.RiskHigh
	}
	return v
}

// dropUnknown removes top-level keys the schema does not declare.
func dropUnknown(m map[string]any, schema map[string]any) []string {
	props, _ := schema["properties"].(map[string]any)
	var dropped []string
	for k := range maps.Clone(m) {
		if _, ok := props[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}
	return dropped
}
