// Package parse turns an uploaded file into a RawDocument.
package parse

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/core/ocr"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

// Service parses one file. Failures are ParseFailed errors.
type Service interface {
	Parse(ctx context.Context, path string) (entity.RawDocument, error)
}

// TextExtractor is the part of ocr.Extractor the adapter needs.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// OCRService adapts the OCR extractor to Service.
type OCRService struct {
	extractor TextExtractor
	logger    *slog.Logger
}

func NewOCRService(e TextExtractor, logger *slog.Logger) *OCRService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRService{extractor: e, logger: logger}
}

func (s *OCRService) Parse(ctx context.Context, path string) (entity.RawDocument, error) {
	if !constants.IsAllowedExt(filepath.Ext(path)) {
		return entity.RawDocument{}, parseError(fmt.Sprintf("unsupported file type %q", filepath.Ext(path)), nil)
	}
	hash, err := HashFile(path)
	if err != nil {
		return entity.RawDocument{}, parseError("hash file", err)
	}

	r, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.logger.Error("parse.failed", "path", path, "error", err)
		return entity.RawDocument{}, parseError("extract text from "+filepath.Base(path), err)
	}
	if strings.TrimSpace(r.Text) == "" {
		return entity.RawDocument{}, parseError("no text found in "+filepath.Base(path), nil)
	}

	return entity.RawDocument{
		Text:        r.Text,
		Filename:    filepath.Base(path),
		SourceType:  r.SourceType,
		Method:      r.Method,
		Pages:       r.Pages,
		Confidence:  r.Confidence,
		ContentHash: hash,
		Warnings:    r.Warnings,
	}, nil
}

func parseError(msg string, cause error) error {
	return common.NewStageError(common.StageParse, common.ErrParseFailed, msg, cause)
}

// HashFile returns the hex sha256 of a file's bytes.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
