package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/entity"
	"github.com/joseph-ayodele/docmind/internal/llm"
)

var invoiceInstructions = strings.Join([]string{
	"You are an expert data extraction assistant. Extract the data from this invoice or receipt into strict JSON.",
	"Critical rules:",
	"1. Discounts: a number in parentheses such as '(50.00)' is NEGATIVE. Extract it as -50.00.",
	"2. Tax: look near the bottom of the document for 'Tax', 'VAT' or '%' and put that amount into 'tax_amount'.",
	"3. Consistency: 'total_amount' must equal the sum of the line item totals plus tax.",
}, "\n")

// InvoiceStrategy makes one schema-constrained call. There is no fallback.
type InvoiceStrategy struct {
	gen    llm.Generator
	logger *slog.Logger
}

func NewInvoiceStrategy(gen llm.Generator, logger *slog.Logger) *InvoiceStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceStrategy{gen: gen, logger: logger}
}

func (s *InvoiceStrategy) Extract(ctx context.Context, text string) (RawRecord, error) {
	start := time.Now()
	raw, err := s.gen.Extract(ctx, llm.ExtractRequest{
		Text:         text,
		Instructions: invoiceInstructions,
		SchemaName:   llm.SchemaInvoice,
		Schema:       llm.InvoiceSchema(),
	})
	if err != nil {
		s.logger.Error("extract.invoice.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return RawRecord{}, common.NewStageError(common.StageExtract, common.ErrExtractionFailed, "invoice extraction", err)
	}

	var rec entity.InvoiceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Error("extract.invoice.decode_failed", "error", err)
		return RawRecord{}, common.NewStageError(common.StageExtract, common.ErrExtractionFailed, "decode invoice", err)
	}
	if rec.LineItems == nil {
		rec.LineItems = []entity.LineItem{}
	}
	// validation fields belong to later stages
	rec.ValidationLog = ""
	rec.DocumentType = ""

	s.logger.Info("extract.invoice.ok",
		"vendor", rec.VendorName,
		"total", rec.TotalAmount,
		"tax", rec.TaxAmount,
		"items", len(rec.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return RawRecord{Category: constants.Invoice, Invoice: &rec}, nil
}
