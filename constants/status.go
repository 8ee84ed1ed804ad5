package constants

// ValidationOutcome is the result of the numeric self-healing check.
type ValidationOutcome string

// Stable values (used as metric labels and log attributes).
const (
	OutcomePassed        ValidationOutcome = "passed"
	OutcomeFixedTax      ValidationOutcome = "fixed_missing_tax"
	OutcomeFixedDiscount ValidationOutcome = "fixed_missed_discount"
	OutcomeManualReview  ValidationOutcome = "manual_review"
	OutcomeSkipped       ValidationOutcome = "skipped"
)

// Validation log messages written onto records.
const (
	LogFixedMissingTax     = "Fixed by Engineering Validator (Missing Tax)"
	LogFixedMissedDiscount = "Fixed by Engineering Validator (Missed Discount)"
	LogManualReview        = "Manual Review Needed"
	LogRiskLevelPrefix     = "Risk Level: "
	LogUnsupportedPrefix   = "Unsupported document type: "
)
