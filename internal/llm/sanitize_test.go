package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInvoiceThenValidate(t *testing.T) {
	raw := `{
		"vendor": "Acme",
		"total": "$1,107.41",
		"tax": "(7.41)",
		"currency_code": " usd ",
		"items": [{"description": "Widget", "quantity": "2", "total_price": "1,100.00"}],
		"notes": "thanks"
	}`
	require.Error(t, ValidateJSONAgainstSchema(InvoiceSchema(), []byte(raw)))

	out, touched, err := SanitizeJSON(SchemaInvoice, []byte(raw), nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(InvoiceSchema(), out))
	assert.Contains(t, touched, "vendor->vendor_name")
	assert.Contains(t, touched, "notes(unknown)")

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "Acme", m["vendor_name"])
	assert.InDelta(t, 1107.41, m["total_amount"], 1e-9)
	assert.InDelta(t, -7.41, m["tax_amount"], 1e-9)
	assert.Equal(t, "USD", m["currency"])
}

func TestSanitizeInvoiceKeepsUnparseableTotal(t *testing.T) {
	raw := `{"vendor_name":"A","currency":"USD","line_items":[],"total_amount":"call us"}`
	out, _, err := SanitizeJSON(SchemaInvoice, []byte(raw), nil)
	require.NoError(t, err)
	assert.Error(t, ValidateJSONAgainstSchema(InvoiceSchema(), out))
}

func TestSanitizeContract(t *testing.T) {
	raw := `{
		"contract_type": "NDA",
		"parties_involved": "Acme Corp",
		"key_terms": null,
		"risk_analysis": "One-sided termination.",
		"overall_risk_level": "high"
	}`
	out, _, err := SanitizeJSON(SchemaContract, []byte(raw), nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(ContractSchema(), out))
	assert.JSONEq(t, `{
		"contract_type": "NDA",
		"parties_involved": ["Acme Corp"],
		"key_terms": [],
		"risk_analysis": "One-sided termination.",
		"overall_risk_level": "High"
	}`, string(out))
}

func TestSanitizeClassification(t *testing.T) {
	schema := ClassificationSchema([]string{"invoice", "receipt", "contract", "other"})
	out, _, err := SanitizeJSON(SchemaClassification, []byte(`{"document_type":" Receipt ","confidence":1.4,"why":"x"}`), nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(schema, out))
	assert.JSONEq(t, `{"document_type":"receipt","confidence":1}`, string(out))
}
