package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/entity"
	"github.com/joseph-ayodele/docmind/internal/llm"
	"github.com/joseph-ayodele/docmind/internal/llm/anthropic"
	"github.com/joseph-ayodele/docmind/internal/llm/openai"
)

type cannedGenerator struct{ out string }

func (g cannedGenerator) Extract(context.Context, llm.ExtractRequest) ([]byte, error) {
	return []byte(g.out), nil
}

func (g cannedGenerator) Complete(context.Context, string) (string, error) {
	return g.out, nil
}

func testConfig() *common.Config {
	return &common.Config{
		LLM:        common.LLMConfig{Provider: common.ProviderOpenAI, APIKey: "test"},
		Classifier: common.ClassifierConfig{Mode: common.ClassifierKeyword, PrefixChars: 3000},
	}
}

func TestNewWiresFilePipeline(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reg := prometheus.NewRegistry()
	gen := cannedGenerator{out: `{"vendor_name":"Acme","invoice_number":"7","invoice_date":"2024-01-01","currency":"USD","total_amount":10,"tax_amount":0,"line_items":[{"description":"Pen","quantity":1,"unit_price":10,"total_price":10}]}`}

	a, err := New(context.Background(), testConfig(), nil,
		WithGenerator(gen),
		WithRegisterer(reg),
		WithRedis(rdb),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	path := filepath.Join(t.TempDir(), "inv.txt")
	require.NoError(t, os.WriteFile(path, []byte("INVOICE 7\nPen 10.00\nAmount Due 10.00"), 0o644))

	rec, err := a.Processor.ProcessFile(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.VendorName)
	assert.Equal(t, entity.Amount(10), rec.TotalAmount)
	assert.Empty(t, rec.ValidationLog)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.DocumentsTotal.WithLabelValues("invoice", entity.MethodKeyword)))
	assert.NotEmpty(t, mr.Keys(), "parsed text cached")
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = ""
	_, err := New(context.Background(), cfg, nil, WithRegisterer(prometheus.NewRegistry()))
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	cfg = testConfig()
	cfg.Classifier.KeywordsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(context.Background(), cfg, nil, WithRegisterer(prometheus.NewRegistry()))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestNewGenerator(t *testing.T) {
	assert.IsType(t, &openai.Client{}, NewGenerator(common.LLMConfig{Provider: common.ProviderOpenAI, APIKey: "k"}, nil))
	assert.IsType(t, &anthropic.Client{}, NewGenerator(common.LLMConfig{Provider: common.ProviderAnthropic, APIKey: "k"}, nil))
}
