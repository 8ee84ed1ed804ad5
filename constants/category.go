package constants

import (
	"strings"
)

// Category is the routing label a document is classified into.
type Category string

const (
	Invoice  Category = "invoice"
	Contract Category = "contract"
	Unknown  Category = "unknown"
)

// AutoOverride is the override value that asks for automatic classification.
const AutoOverride = "auto"

// Model-side labels for the delegated classifier enum.
const (
	LabelInvoice  = "invoice"
	LabelReceipt  = "receipt"
	LabelContract = "contract"
	LabelOther    = "other"
)

var modelLabels = []string{LabelInvoice, LabelReceipt, LabelContract, LabelOther}

// ModelLabels returns the enum the model classifier is constrained to.
func ModelLabels() []string {
	out := make([]string, len(modelLabels))
	copy(out, modelLabels)
	return out
}

// Canonicalize maps a model label (or a loose synonym) to a routing category.
// The bool reports whether the input was recognised.
func Canonicalize(input string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Unknown, false
	}

	synonyms := map[string]Category{
		LabelInvoice:    Invoice,
		LabelReceipt:    Invoice,
		"bill":          Invoice,
		LabelContract:   Contract,
		"agreement":     Contract,
		"nda":           Contract,
		LabelOther:      Unknown,
		string(Unknown): Unknown,
	}
	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}
	return Unknown, false
}

// IsOverride reports whether a caller-supplied doc type should bypass classification.
func IsOverride(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, AutoOverride)
}
