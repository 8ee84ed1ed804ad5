package classify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/entity"
	"github.com/joseph-ayodele/docmind/internal/llm"
)

const classifyInstructions = "You are a document triage assistant. " +
	"Decide whether the document is an invoice, a receipt, a contract, or something else. " +
	"Report your confidence between 0 and 1."

// ModelClassifier delegates the decision to a schema-constrained model call.
type ModelClassifier struct {
	gen         llm.Generator
	prefixChars int
	logger      *slog.Logger
}

func NewModelClassifier(gen llm.Generator, prefixChars int, logger *slog.Logger) *ModelClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	if prefixChars <= 0 {
		prefixChars = DefaultPrefixChars
	}
	return &ModelClassifier{gen: gen, prefixChars: prefixChars, logger: logger}
}

type modelLabel struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}

// Classify maps receipt to invoice and other to unknown.
// Any provider or decoding failure is a ClassificationFailed error.
func (m *ModelClassifier) Classify(ctx context.Context, text string) (entity.Classification, error) {
	raw, err := m.gen.Extract(ctx, llm.ExtractRequest{
		Text:         truncateRunes(text, m.prefixChars),
		Instructions: classifyInstructions,
		SchemaName:   llm.SchemaClassification,
		Schema:       llm.ClassificationSchema(constants.ModelLabels()),
	})
	if err != nil {
		m.logger.Error("classify.model.failed", "error", err)
		return entity.Classification{}, common.NewStageError(common.StageClassify, common.ErrClassificationFailed, "model classification", err)
	}

	var label modelLabel
	if err := json.Unmarshal(raw, &label); err != nil {
		return entity.Classification{}, common.NewStageError(common.StageClassify, common.ErrClassificationFailed, "decode classification", err)
	}
	cat, ok := constants.Canonicalize(label.DocumentType)
	if !ok {
		cat = constants.Unknown
	}

	conf := label.Confidence
	m.logger.Info("classify.model",
		"label", label.DocumentType,
		"category", cat,
		"confidence", conf,
	)
	return entity.Classification{Category: cat, Confidence: &conf, Method: entity.MethodModel}, nil
}
