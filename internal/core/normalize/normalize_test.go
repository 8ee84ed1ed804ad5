package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/core/extract"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

func TestNormalizeInvoice(t *testing.T) {
	rec := entity.InvoiceRecord{
		VendorName:    "Acme",
		Currency:      "USD",
		TotalAmount:   107.41,
		TaxAmount:     7.41,
		LineItems:     []entity.LineItem{{Description: "Widget", TotalPrice: 100}},
		ValidationLog: constants.LogFixedMissingTax,
	}
	conf := 0.93
	out := Normalize(
		extract.RawRecord{Category: constants.Invoice, Invoice: &rec},
		entity.Classification{Category: constants.Invoice, Confidence: &conf},
	)

	assert.Equal(t, "invoice", out.DocumentType)
	assert.Equal(t, "Acme", out.VendorName)
	assert.Equal(t, entity.Amount(7.41), out.TaxAmount)
	assert.Equal(t, constants.LogFixedMissingTax, out.ValidationLog)
	assert.Empty(t, out.ContractType)
	require.NotNil(t, out.ClassificationConfidence)
	assert.InDelta(t, 0.93, *out.ClassificationConfidence, 1e-9)
	assert.Empty(t, rec.DocumentType)
}

func TestNormalizeContract(t *testing.T) {
	rec := entity.ContractRecord{
		ContractType:     "NDA",
		PartiesInvolved:  []string{"Acme Corp", "Beta LLC"},
		EffectiveDate:    "2024-01-01",
		KeyTerms:         []string{"2 year term"},
		RiskAnalysis:     "Broad scope.",
		OverallRiskLevel: entity.RiskHigh,
	}
	out := Normalize(extract.RawRecord{Category: constants.Contract, Contract: &rec}, entity.Classification{Category: constants.Contract})

	assert.Equal(t, "Acme Corp", out.VendorName)
	assert.Equal(t, entity.Amount(0), out.TotalAmount)
	assert.Equal(t, "NDA", out.InvoiceNumber)
	assert.Equal(t, "2024-01-01", out.InvoiceDate)
	assert.Empty(t, out.LineItems)
	assert.NotNil(t, out.LineItems)
	assert.Equal(t, "USD", out.Currency)
	assert.Equal(t, "Risk Level: High", out.ValidationLog)
	assert.Equal(t, "contract", out.DocumentType)
	assert.Equal(t, "Broad scope.", out.RiskAnalysis)
	assert.Nil(t, out.ClassificationConfidence)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"line_items":[]`)
	assert.Contains(t, string(b), `"overall_risk_level":"High"`)
}

func TestNormalizeContractDefaults(t *testing.T) {
	rec := entity.ContractRecord{ContractType: "MSA"}
	out := Normalize(extract.RawRecord{Category: constants.Contract, Contract: &rec}, entity.Classification{Category: constants.Contract})

	assert.Equal(t, "Unknown", out.VendorName)
	assert.Equal(t, "N/A", out.InvoiceDate)
	assert.Equal(t, "Risk Level: Unknown", out.ValidationLog)
}

func TestNormalizeUnsupported(t *testing.T) {
	for _, cat := range []constants.Category{constants.Unknown, "purchase_order"} {
		out := Normalize(extract.RawRecord{}, entity.Classification{Category: cat})
		assert.Equal(t, "UNKNOWN", out.VendorName)
		assert.Equal(t, entity.Amount(0), out.TotalAmount)
		assert.Equal(t, entity.Amount(0), out.TaxAmount)
		assert.Empty(t, out.LineItems)
		assert.Equal(t, "Unsupported document type: "+string(cat), out.ValidationLog)
		assert.Equal(t, string(cat), out.DocumentType)
	}
}
