package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/entity"
	"github.com/joseph-ayodele/docmind/internal/llm"
)

const contractInstructions = "You are a senior legal analyst. Analyze this contract and extract data strictly according to the schema.\n" +
	"Output ONLY valid JSON. No Markdown."

// ContractStrategy makes one schema-constrained call and, if that fails,
// exactly one unconstrained completion whose text is cleaned and decoded.
type ContractStrategy struct {
	gen    llm.Generator
	logger *slog.Logger
}

func NewContractStrategy(gen llm.Generator, logger *slog.Logger) *ContractStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractStrategy{gen: gen, logger: logger}
}

func (s *ContractStrategy) Extract(ctx context.Context, text string) (RawRecord, error) {
	start := time.Now()
	raw, err := s.gen.Extract(ctx, llm.ExtractRequest{
		Text:         text,
		Instructions: contractInstructions,
		SchemaName:   llm.SchemaContract,
		Schema:       llm.ContractSchema(),
	})
	if err == nil {
		rec, decErr := decodeContract(raw)
		if decErr == nil {
			s.logger.Info("extract.contract.ok",
				"contract_type", rec.ContractType,
				"risk", rec.OverallRiskLevel,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return RawRecord{Category: constants.Contract, Contract: &rec}, nil
		}
		err = decErr
	}

	if ctx.Err() != nil {
		s.logger.Error("extract.contract.cancelled", "error", err)
		return RawRecord{}, common.NewStageError(common.StageExtract, common.ErrExtractionFailed, "contract extraction", err)
	}

	s.logger.Warn("extract.contract.fallback", "error", err)
	return s.fallback(ctx, text, start)
}

func (s *ContractStrategy) fallback(ctx context.Context, text string, start time.Time) (RawRecord, error) {
	out, err := s.gen.Complete(ctx, contractInstructions+"\n\nContract Text:\n"+text)
	if err != nil {
		s.logger.Error("extract.contract.fallback_failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return RawRecord{}, common.NewStageError(common.StageExtract, common.ErrCompletionFailed, "contract fallback completion", err)
	}

	cleaned := llm.CleanJSONText(out)
	sanitized, _, err := llm.SanitizeJSON(llm.SchemaContract, []byte(cleaned), s.logger)
	if err != nil {
		s.logger.Error("extract.contract.malformed", "error", err, "bytes", len(out))
		return RawRecord{}, common.NewStageError(common.StageExtract, common.ErrMalformedOutput, "contract fallback output", err)
	}
	if err := llm.ValidateJSONAgainstSchema(llm.ContractSchema(), sanitized); err != nil {
		s.logger.Error("extract.contract.malformed", "error", err, "bytes", len(out))
		return RawRecord{}, common.NewStageError(common.StageExtract, common.ErrMalformedOutput, "contract fallback output does not match schema", err)
	}
	rec, err := decodeContract(sanitized)
	if err != nil {
		return RawRecord{}, common.NewStageError(common.StageExtract, common.ErrMalformedOutput, "contract fallback output", err)
	}

	s.logger.Info("extract.contract.fallback_ok",
		"contract_type", rec.ContractType,
		"risk", rec.OverallRiskLevel,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return RawRecord{Category: constants.Contract, Contract: &rec}, nil
}

func decodeContract(raw []byte) (entity.ContractRecord, error) {
	var rec entity.ContractRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return entity.ContractRecord{}, err
	}
	if rec.PartiesInvolved == nil {
		rec.PartiesInvolved = []string{}
	}
	if rec.KeyTerms == nil {
		rec.KeyTerms = []string{}
	}
	return rec, nil
}
