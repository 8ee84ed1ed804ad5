package report

import (
	"strings"

	"github.com/joseph-ayodele/docmind/internal/entity"
)

// Summary renders a contract record as a short legal report.
func (r *Renderer) Summary(rec entity.UniformRecord) string {
	var b strings.Builder
	b.WriteString("LEGAL REPORT\n")
	b.WriteString("Type: " + orNA(rec.ContractType) + "\n")
	b.WriteString("Risk: " + orNA(rec.OverallRiskLevel) + "\n")
	if rec.EffectiveDate != "" {
		b.WriteString("Effective: " + rec.EffectiveDate + "\n")
	}
	b.WriteString("\nRISK ANALYSIS:\n")
	b.WriteString(orNA(rec.RiskAnalysis) + "\n")

	if len(rec.PartiesInvolved) > 0 {
		b.WriteString("\nPARTIES:\n")
		for _, p := range rec.PartiesInvolved {
			b.WriteString("- " + p + "\n")
		}
	}
	if len(rec.KeyTerms) > 0 {
		b.WriteString("\nKEY TERMS:\n")
		for _, t := range rec.KeyTerms {
			b.WriteString("- " + t + "\n")
		}
	}

	r.logger.Debug("report.summary.ok", "contract_type", rec.ContractType, "bytes", b.Len())
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
