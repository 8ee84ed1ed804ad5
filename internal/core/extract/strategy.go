// Package extract turns document text into a structured record, one strategy per category.
package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/entity"
	"github.com/joseph-ayodele/docmind/internal/llm"
)

// RawRecord is a strategy's output before validation and normalization.
// Exactly one of Invoice or Contract is set.
type RawRecord struct {
	Category constants.Category
	Invoice  *entity.InvoiceRecord
	Contract *entity.ContractRecord
}

// Strategy extracts one document category.
type Strategy interface {
	Extract(ctx context.Context, text string) (RawRecord, error)
}

// Table dispatches categories to strategies. Categories without an entry are unsupported.
type Table map[constants.Category]Strategy

// NewTable registers the invoice and contract strategies on gen.
func NewTable(gen llm.Generator, logger *slog.Logger) Table {
	return Table{
		constants.Invoice:  NewInvoiceStrategy(gen, logger),
		constants.Contract: NewContractStrategy(gen, logger),
	}
}

// For returns the strategy registered for c.
func (t Table) For(c constants.Category) (Strategy, bool) {
	s, ok := t[c]
	return s, ok
}
