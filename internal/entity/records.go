package entity

// LineItem is one row of an invoice. total_price is trusted as extracted.
type LineItem struct {
	Description string `json:"description"`
	Quantity    Amount `json:"quantity"`
	UnitPrice   Amount `json:"unit_price"`
	TotalPrice  Amount `json:"total_price"`
}

// InvoiceRecord is the structured shape of invoices and receipts.
type InvoiceRecord struct {
	VendorName     string     `json:"vendor_name"`
	InvoiceNumber  string     `json:"invoice_number"`
	InvoiceDate    string     `json:"invoice_date"`
	Currency       string     `json:"currency"`
	TotalAmount    Amount     `json:"total_amount"`
	TaxAmount      Amount     `json:"tax_amount"`
	DiscountAmount *Amount    `json:"discount_amount,omitempty"`
	LineItems      []LineItem `json:"line_items"`
	ValidationLog  string     `json:"validation_log,omitempty"`
	DocumentType   string     `json:"document_type"`
}

// Clone returns a deep copy so transforms never alias the caller's slices.
func (r InvoiceRecord) Clone() InvoiceRecord {
	out := r
	if r.LineItems != nil {
		out.LineItems = make([]LineItem, len(r.LineItems))
		copy(out.LineItems, r.LineItems)
	}
	if r.DiscountAmount != nil {
		d := *r.DiscountAmount
		out.DiscountAmount = &d
	}
	return out
}

// Risk levels a contract analysis may report.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// ContractRecord is the structured shape of legal agreements.
type ContractRecord struct {
	ContractType     string   `json:"contract_type"`
	PartiesInvolved  []string `json:"parties_involved"`
	EffectiveDate    string   `json:"effective_date"`
	KeyTerms         []string `json:"key_terms"`
	RiskAnalysis     string   `json:"risk_analysis"`
	OverallRiskLevel string   `json:"overall_risk_level"`
}

// UniformRecord is what the pipeline hands back for every document type:
// an invoice-shaped envelope, with contract details attached when present.
type UniformRecord struct {
	InvoiceRecord

	ContractType     string   `json:"contract_type,omitempty"`
	PartiesInvolved  []string `json:"parties_involved,omitempty"`
	EffectiveDate    string   `json:"effective_date,omitempty"`
	KeyTerms         []string `json:"key_terms,omitempty"`
	RiskAnalysis     string   `json:"risk_analysis,omitempty"`
	OverallRiskLevel string   `json:"overall_risk_level,omitempty"`

	ClassificationConfidence *float64 `json:"classification_confidence,omitempty"`
}
