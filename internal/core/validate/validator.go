// Package validate reconciles extracted invoice numbers against the source text.
package validate

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

// Tolerance is the largest total mismatch still considered consistent.
var Tolerance = decimal.New(1, -2)

// Report explains how an outcome was reached.
type Report struct {
	Outcome  constants.ValidationOutcome
	ItemsSum decimal.Decimal
	Diff     decimal.Decimal // total - (items + tax)
	Evidence string          // matched text when a fix was applied
}

// ValidateAndCorrect checks total_amount against the line item sum plus tax.
// A gap is only repaired when the gap itself appears in rawText:
// a positive gap becomes tax, a negative gap becomes a discount. Without
// evidence the numbers stay and the record is flagged for manual review.
// rec is never modified.
func ValidateAndCorrect(rec entity.InvoiceRecord, rawText string) (entity.InvoiceRecord, constants.ValidationOutcome) {
	out, report := Check(rec, rawText)
	return out, report.Outcome
}

// Check is ValidateAndCorrect with the arithmetic exposed.
func Check(rec entity.InvoiceRecord, rawText string) (entity.InvoiceRecord, Report) {
	out := rec.Clone()

	if !rec.TotalAmount.Valid() || !rec.TaxAmount.Valid() {
		return out, Report{Outcome: constants.OutcomeSkipped}
	}
	itemsSum := decimal.Zero
	for _, it := range rec.LineItems {
		if !it.TotalPrice.Valid() {
			return out, Report{Outcome: constants.OutcomeSkipped}
		}
		itemsSum = itemsSum.Add(toDecimal(it.TotalPrice))
	}

	theoretical := itemsSum.Add(toDecimal(rec.TaxAmount))
	diff := toDecimal(rec.TotalAmount).Sub(theoretical)
	report := Report{ItemsSum: itemsSum, Diff: diff}

	if diff.Abs().LessThan(Tolerance) {
		report.Outcome = constants.OutcomePassed
		return out, report
	}

	gap := diff.Abs()
	evidence := findEvidence(gap, rawText)
	if evidence == "" {
		out.ValidationLog = constants.LogManualReview
		report.Outcome = constants.OutcomeManualReview
		return out, report
	}
	report.Evidence = evidence

	fix := entity.Amount(gap.Round(2).InexactFloat64())
	if diff.IsPositive() {
		out.TaxAmount = fix
		out.ValidationLog = constants.LogFixedMissingTax
		report.Outcome = constants.OutcomeFixedTax
	} else {
		out.DiscountAmount = fix.Ptr()
		out.ValidationLog = constants.LogFixedMissedDiscount
		report.Outcome = constants.OutcomeFixedDiscount
	}
	return out, report
}

// findEvidence looks for the integer part of gap followed by a decimal mark
// and two digits, e.g. 7.41 or 7,41 for a gap of 7.41.
func findEvidence(gap decimal.Decimal, rawText string) string {
	intPart := gap.Truncate(0).String()
	re := regexp.MustCompile(regexp.QuoteMeta(intPart) + `[.,]\d{2}`)
	return re.FindString(rawText)
}

func toDecimal(a entity.Amount) decimal.Decimal {
	return decimal.NewFromFloat(a.Float64())
}
