// Package normalize gives every document type the same outward shape.
package normalize

import (
	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/core/extract"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

// Placeholder values used when a contract is shown in invoice form.
const (
	ContractInvoiceNumber = "NDA"
	ContractCurrency      = "USD"
	UnknownVendor         = "Unknown"
	UnsupportedVendor     = "UNKNOWN"
	UnsupportedCurrency   = "N/A"
	NotAvailable          = "N/A"
	UnknownRisk           = "Unknown"
)

// Normalize maps a strategy result onto a UniformRecord. A nil or empty raw
// record (unsupported category) yields the unsupported stub.
func Normalize(raw extract.RawRecord, c entity.Classification) entity.UniformRecord {
	var out entity.UniformRecord
	switch {
	case raw.Invoice != nil:
		out = fromInvoice(*raw.Invoice)
	case raw.Contract != nil:
		out = fromContract(*raw.Contract)
	default:
		out = unsupported(c.Category)
	}
	out.ClassificationConfidence = c.Confidence
	return out
}

func fromInvoice(rec entity.InvoiceRecord) entity.UniformRecord {
	inv := rec.Clone()
	if inv.LineItems == nil {
		inv.LineItems = []entity.LineItem{}
	}
	inv.DocumentType = string(constants.Invoice)
	return entity.UniformRecord{InvoiceRecord: inv}
}

func fromContract(rec entity.ContractRecord) entity.UniformRecord {
	vendor := UnknownVendor
	if len(rec.PartiesInvolved) > 0 && rec.PartiesInvolved[0] != "" {
		vendor = rec.PartiesInvolved[0]
	}
	date := rec.EffectiveDate
	if date == "" {
		date = NotAvailable
	}
	risk := rec.OverallRiskLevel
	if risk == "" {
		risk = UnknownRisk
	}

	return entity.UniformRecord{
		InvoiceRecord: entity.InvoiceRecord{
			VendorName:    vendor,
			InvoiceNumber: ContractInvoiceNumber,
			InvoiceDate:   date,
			Currency:      ContractCurrency,
			TotalAmount:   0,
			LineItems:     []entity.LineItem{},
			ValidationLog: constants.LogRiskLevelPrefix + risk,
			DocumentType:  string(constants.Contract),
		},
		ContractType:     rec.ContractType,
		PartiesInvolved:  append([]string(nil), rec.PartiesInvolved...),
		EffectiveDate:    rec.EffectiveDate,
		KeyTerms:         append([]string(nil), rec.KeyTerms...),
		RiskAnalysis:     rec.RiskAnalysis,
		OverallRiskLevel: rec.OverallRiskLevel,
	}
}

func unsupported(c constants.Category) entity.UniformRecord {
	return entity.UniformRecord{
		InvoiceRecord: entity.InvoiceRecord{
			VendorName:    UnsupportedVendor,
			Currency:      UnsupportedCurrency,
			LineItems:     []entity.LineItem{},
			ValidationLog: constants.LogUnsupportedPrefix + string(c),
			DocumentType:  string(c),
		},
	}
}
