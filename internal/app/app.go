// Package app wires configuration into a ready pipeline for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/core"
	"github.com/joseph-ayodele/docmind/internal/core/classify"
	"github.com/joseph-ayodele/docmind/internal/core/extract"
	"github.com/joseph-ayodele/docmind/internal/core/ocr"
	"github.com/joseph-ayodele/docmind/internal/core/parse"
	"github.com/joseph-ayodele/docmind/internal/llm"
	"github.com/joseph-ayodele/docmind/internal/llm/anthropic"
	"github.com/joseph-ayodele/docmind/internal/llm/openai"
	"github.com/joseph-ayodele/docmind/internal/metrics"
	"github.com/joseph-ayodele/docmind/internal/report"
)

// App holds the long-lived pipeline components.
type App struct {
	Config    *common.Config
	Logger    *slog.Logger
	Processor *core.Processor
	Renderer  *report.Renderer
	Metrics   *metrics.Pipeline

	closers []func() error
}

type options struct {
	generator  llm.Generator
	registerer prometheus.Registerer
	runner     ocr.Runner
	redis      redis.UniversalClient
}

type Option func(*options)

// WithGenerator replaces the provider client built from config.
func WithGenerator(g llm.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithRegisterer sets where pipeline metrics are registered.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithRunner replaces the exec runner used by the OCR extractor.
func WithRunner(r ocr.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithRedis uses an existing client for the parse cache instead of REDIS_ADDR.
func WithRedis(c redis.UniversalClient) Option {
	return func(o *options) { o.redis = c }
}

// New builds the pipeline described by cfg.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Logger: logger, Renderer: report.NewRenderer(logger)}

	gen := o.generator
	if gen == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		gen = NewGenerator(cfg.LLM, logger)
	}

	classifier, err := newClassifier(cfg.Classifier, gen, logger)
	if err != nil {
		return nil, err
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:       cfg.Parse.PdfToTextBin,
		Pdftoppm:        cfg.Parse.PdfToPpmBin,
		Tesseract:       cfg.Parse.TesseractBin,
		TesseractLang:   cfg.Parse.TesseractLang,
		TessdataDir:     cfg.Parse.TessdataDir,
		DPI:             cfg.Parse.DPI,
		MaxPages:        cfg.Parse.MaxPages,
		MinPDFTextChars: cfg.Parse.MinPDFTextChar,
	}, o.runner, logger)
	var parser parse.Service = parse.NewOCRService(extractor, logger)

	rdb := o.redis
	if rdb == nil && cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("app.redis.unavailable", "addr", cfg.Cache.RedisAddr, "error", err)
		}
		a.closers = append(a.closers, client.Close)
		rdb = client
	}
	if rdb != nil {
		parser = parse.NewCachingService(parser, rdb, cfg.Cache.TTL, logger)
	}

	a.Metrics = metrics.NewPipeline(o.registerer)
	a.Processor = core.NewProcessor(logger, classifier, extract.NewTable(gen, logger),
		core.WithParser(parser),
		core.WithObserver(a.Metrics),
	)

	logger.Info("app.ready",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"classifier", cfg.Classifier.Mode,
		"parse_cache", rdb != nil,
	)
	return a, nil
}

// NewGenerator returns the model client for cfg.Provider.
func NewGenerator(cfg common.LLMConfig, logger *slog.Logger) llm.Generator {
	if cfg.Provider == common.ProviderAnthropic {
		return anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
			Lenient:     cfg.Lenient,
		}, logger)
	}
	return openai.NewClient(openai.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
		Lenient:     cfg.Lenient,
	}, logger)
}

func newClassifier(cfg common.ClassifierConfig, gen llm.Generator, logger *slog.Logger) (classify.Classifier, error) {
	if cfg.Mode == common.ClassifierModel {
		return classify.NewModelClassifier(gen, cfg.PrefixChars, logger), nil
	}
	sets := classify.DefaultKeywordSets()
	if cfg.KeywordsFile != "" {
		var err error
		if sets, err = classify.LoadKeywordSets(cfg.KeywordsFile); err != nil {
			return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("keywords file %s", cfg.KeywordsFile), errors.Join(common.ErrInvalidInput, err))
		}
	}
	return classify.NewKeywordClassifier(sets, cfg.PrefixChars, logger), nil
}

// Close releases clients opened by New.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
