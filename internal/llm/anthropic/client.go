package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joseph-ayodele/docmind/internal/llm"
)

// Config for the Anthropic messages client.
type Config struct {
	APIKey      string
	BaseURL     string // empty uses the SDK default
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Lenient     bool
}

// Client implements llm.Generator over the Messages API.
type Client struct {
	cfg Config
	sdk anthropic.Client
	log *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		cfg: cfg,
		sdk: anthropic.NewClient(opts...),
		log: logger,
	}
}

// Extract sends the schema with the system prompt and validates the reply locally.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) ([]byte, error) {
	ctx, rid := llm.EnsureRequestID(ctx)
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"provider", "anthropic",
		"model", c.cfg.Model,
		"schema", req.SchemaName,
		"text_len", len(req.Text),
	)

	system := llm.BuildSystemPrompt(req) + "\n\n" + llm.BuildSchemaPrompt(req.Schema)
	text, err := c.send(ctx, system, llm.BuildUserPrompt(req))
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	out, err := llm.CheckStructured([]byte(llm.CleanJSONText(text)), req, c.cfg.Lenient, c.log, rid, start)
	if err != nil {
		return nil, err
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"schema", req.SchemaName,
		"bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Complete sends a single user message without a schema.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, rid := llm.EnsureRequestID(ctx)
	start := time.Now()

	c.log.Info("llm.complete.start", "req_id", rid, "provider", "anthropic", "model", c.cfg.Model, "prompt_len", len(prompt))

	text, err := c.send(ctx, "", prompt)
	if err != nil {
		c.log.Error("llm.complete.http_error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	c.log.Info("llm.complete.ok", "req_id", rid, "bytes", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}

func (c *Client) send(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.Model),
		MaxTokens:   int64(c.cfg.MaxTokens),
		Temperature: anthropic.Float(float64(c.cfg.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("anthropic: no text content in response")
	}
	return strings.TrimSpace(b.String()), nil
}
