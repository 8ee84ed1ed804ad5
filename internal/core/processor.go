// Package core runs the document pipeline: classify, extract, validate, normalize.
package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/core/classify"
	"github.com/joseph-ayodele/docmind/internal/core/extract"
	"github.com/joseph-ayodele/docmind/internal/core/normalize"
	"github.com/joseph-ayodele/docmind/internal/core/parse"
	"github.com/joseph-ayodele/docmind/internal/core/validate"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

// Observer receives pipeline events, e.g. for metrics.
type Observer interface {
	ObserveClassification(c entity.Classification)
	ObserveValidation(outcome constants.ValidationOutcome)
	ObserveFailure(stage string, err error)
	ObserveDuration(category constants.Category, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveClassification(entity.Classification) {}
func (nopObserver) ObserveValidation(constants.ValidationOutcome) {}
func (nopObserver) ObserveFailure(string, error) {}
func (nopObserver) ObserveDuration(constants.Category, time.Duration) {}

// Processor is stateless per request and safe for concurrent use.
type Processor struct {
	logger     *slog.Logger
	classifier classify.Classifier
	strategies extract.Table
	parser     parse.Service
	observer   Observer
}

type Option func(*Processor)

// WithObserver attaches a pipeline observer.
func WithObserver(o Observer) Option {
	return func(p *Processor) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithParser enables ProcessFile.
func WithParser(s parse.Service) Option {
	return func(p *Processor) {
		p.parser = s
	}
}

func NewProcessor(logger *slog.Logger, classifier classify.Classifier, strategies extract.Table, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:     logger,
		classifier: classifier,
		strategies: strategies,
		observer:   nopObserver{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run takes raw document text through the pipeline. override is a manual
// document type; "" or "auto" classifies automatically.
func (p *Processor) Run(ctx context.Context, text, override string) (entity.UniformRecord, error) {
	ctx, rid := ensureRequestID(ctx)
	start := time.Now()
	log := p.logger.With("req_id", rid)

	if strings.TrimSpace(text) == "" {
		err := common.NewStageError(common.StageClassify, common.ErrInvalidInput, "document text is empty", nil)
		p.observer.ObserveFailure(common.StageClassify, err)
		return entity.UniformRecord{}, err
	}

	cls, err := classify.Resolve(ctx, p.classifier, text, override, log)
	if err != nil {
		err = asStageError(err, common.StageClassify, common.ErrClassificationFailed, "classify document")
		log.Error("pipeline.classify.failed", "error", err)
		p.observer.ObserveFailure(common.StageClassify, err)
		return entity.UniformRecord{}, err
	}
	p.observer.ObserveClassification(cls)
	log.Info("pipeline.classify.ok", "category", cls.Category, "method", cls.Method)

	strategy, ok := p.strategies.For(cls.Category)
	if !ok {
		log.Warn("pipeline.unsupported", "category", cls.Category)
		out := normalize.Normalize(extract.RawRecord{Category: cls.Category}, cls)
		p.observer.ObserveDuration(cls.Category, time.Since(start))
		return out, nil
	}

	raw, err := strategy.Extract(ctx, text)
	if err != nil {
		err = asStageError(err, common.StageExtract, common.ErrExtractionFailed, "extract "+string(cls.Category))
		log.Error("pipeline.extract.failed", "category", cls.Category, "error", err)
		p.observer.ObserveFailure(common.StageExtract, err)
		return entity.UniformRecord{}, err
	}

	if raw.Invoice != nil {
		checked, report := validate.Check(*raw.Invoice, text)
		raw.Invoice = &checked
		p.observer.ObserveValidation(report.Outcome)
		if report.Outcome == constants.OutcomeSkipped {
			skipped := common.NewStageError(common.StageValidate, common.ErrValidationSkipped, "amounts not numeric", nil)
			log.Warn("validator.skipped", "stage", common.StageValidate, "error", skipped)
		} else {
			log.Info("validator.done",
				"outcome", report.Outcome,
				"items_sum", report.ItemsSum.String(),
				"diff", report.Diff.String(),
				"evidence", report.Evidence,
			)
		}
	}

	out := normalize.Normalize(raw, cls)
	elapsed := time.Since(start)
	p.observer.ObserveDuration(cls.Category, elapsed)
	log.Info("pipeline.done",
		"document_type", out.DocumentType,
		"validation_log", out.ValidationLog,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return out, nil
}

// ProcessFile parses path and runs the result through Run.
func (p *Processor) ProcessFile(ctx context.Context, path, override string) (entity.UniformRecord, error) {
	ctx, rid := ensureRequestID(ctx)
	if p.parser == nil {
		return entity.UniformRecord{}, common.NewStageError(common.StageParse, common.ErrParseFailed, "no parse service configured", nil)
	}

	doc, err := p.parser.Parse(ctx, path)
	if err != nil {
		err = asStageError(err, common.StageParse, common.ErrParseFailed, "parse "+path)
		p.logger.Error("pipeline.parse.failed", "req_id", rid, "path", path, "error", err)
		p.observer.ObserveFailure(common.StageParse, err)
		return entity.UniformRecord{}, err
	}
	p.logger.Info("pipeline.parse.ok",
		"req_id", rid,
		"file", doc.Filename,
		"method", doc.Method,
		"pages", doc.Pages,
		"chars", len(doc.Text),
	)
	return p.Run(ctx, doc.Text, override)
}

func ensureRequestID(ctx context.Context) (context.Context, string) {
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		return ctx, rid
	}
	rid := uuid.New().String()
	return common.WithRequestID(ctx, rid), rid
}

// asStageError keeps pipeline errors as they are and wraps anything else.
func asStageError(err error, stage string, kind error, msg string) error {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return common.NewStageError(stage, kind, msg, err)
}
