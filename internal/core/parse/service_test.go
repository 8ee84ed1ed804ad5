package parse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/core/ocr"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

type stubExtractor struct {
	res   ocr.ExtractionResult
	err   error
	calls int
}

func (s *stubExtractor) Extract(context.Context, string) (ocr.ExtractionResult, error) {
	s.calls++
	return s.res, s.err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestOCRServiceParse(t *testing.T) {
	path := writeFile(t, "invoice.pdf", "%PDF-fake")
	stub := &stubExtractor{res: ocr.ExtractionResult{Text: "INVOICE", Pages: 1, SourceType: constants.PDF, Method: "pdf-text"}}

	doc, err := NewOCRService(stub, nil).Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "INVOICE", doc.Text)
	assert.Equal(t, "invoice.pdf", doc.Filename)
	assert.Equal(t, "pdf-text", doc.Method)
	assert.Len(t, doc.ContentHash, 64)
}

func TestOCRServiceFailures(t *testing.T) {
	ctx := context.Background()

	_, err := NewOCRService(&stubExtractor{}, nil).Parse(ctx, writeFile(t, "data.xlsx", "x"))
	assert.ErrorIs(t, err, common.ErrParseFailed)

	_, err = NewOCRService(&stubExtractor{}, nil).Parse(ctx, filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, common.ErrParseFailed)

	cause := errors.New("pdftoppm: exit status 1")
	_, err = NewOCRService(&stubExtractor{err: cause}, nil).Parse(ctx, writeFile(t, "a.pdf", "x"))
	assert.ErrorIs(t, err, common.ErrParseFailed)
	assert.ErrorIs(t, err, cause)

	_, err = NewOCRService(&stubExtractor{res: ocr.ExtractionResult{Text: "  \n"}}, nil).Parse(ctx, writeFile(t, "b.png", "x"))
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

type countingService struct {
	doc   entity.RawDocument
	err   error
	calls int
}

func (c *countingService) Parse(context.Context, string) (entity.RawDocument, error) {
	c.calls++
	return c.doc, c.err
}

func TestCachingService(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	path := writeFile(t, "contract.txt", "MUTUAL NDA")
	inner := &countingService{doc: entity.RawDocument{Text: "MUTUAL NDA", Method: "plain-text"}}
	svc := NewCachingService(inner, rdb, time.Hour, nil)

	first, err := svc.Parse(context.Background(), path)
	require.NoError(t, err)
	second, err := svc.Parse(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	hash, err := HashFile(path)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cacheKeyPrefix+hash))
	assert.Equal(t, time.Hour, mr.TTL(cacheKeyPrefix+hash))
}

func TestCachingServiceDoesNotCacheFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	path := writeFile(t, "x.pdf", "x")
	inner := &countingService{err: common.NewStageError(common.StageParse, common.ErrParseFailed, "boom", nil)}
	svc := NewCachingService(inner, rdb, time.Hour, nil)

	_, err := svc.Parse(context.Background(), path)
	require.ErrorIs(t, err, common.ErrParseFailed)
	_, err = svc.Parse(context.Background(), path)
	require.ErrorIs(t, err, common.ErrParseFailed)
	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, mr.Keys())
}

func TestCachingServiceSurvivesRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = rdb.Close() }()
	mr.Close()

	path := writeFile(t, "y.txt", "hello")
	inner := &countingService{doc: entity.RawDocument{Text: "hello"}}
	doc, err := NewCachingService(inner, rdb, time.Minute, nil).Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Text)
}
