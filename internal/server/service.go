// Package server exposes the extraction pipeline over gRPC.
package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

const maxDocTypeLen = 64

// Pipeline is satisfied by *core.Processor.
type Pipeline interface {
	Run(ctx context.Context, text, override string) (entity.UniformRecord, error)
	ProcessFile(ctx context.Context, path, override string) (entity.UniformRecord, error)
}

// Renderer is satisfied by *report.Renderer.
type Renderer interface {
	Spreadsheet(rec entity.UniformRecord) ([]byte, error)
	Summary(rec entity.UniformRecord) string
}

type ExtractionServer struct {
	pipeline Pipeline
	renderer Renderer
	logger   *slog.Logger
}

func NewExtractionServer(p Pipeline, r Renderer, logger *slog.Logger) *ExtractionServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionServer{pipeline: p, renderer: r, logger: logger}
}

// Extract runs raw text through the pipeline. Request fields: text, doc_type.
func (s *ExtractionServer) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text := stringField(req, "text")
	docType := strings.TrimSpace(stringField(req, "doc_type"))

	v := common.NewValidator().
		Field("text", text, common.Required).
		Field("doc_type", docType, common.MaxLength(maxDocTypeLen))
	if err := common.ValidateAndReturnError(v); err != nil {
		s.logger.Warn("grpc.extract.invalid", "req_id", common.RequestIDFromContext(ctx), "error", v.ErrorMessage())
		return nil, err
	}

	return s.run(ctx, "extract", func(ctx context.Context) (entity.UniformRecord, error) {
		return s.pipeline.Run(ctx, text, docType)
	})
}

// ExtractFile parses a file readable by the server. Request fields: path, doc_type.
func (s *ExtractionServer) ExtractFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path := strings.TrimSpace(stringField(req, "path"))
	docType := strings.TrimSpace(stringField(req, "doc_type"))

	v := common.NewValidator().
		Field("path", path, common.Required).
		Field("doc_type", docType, common.MaxLength(maxDocTypeLen))
	if err := common.ValidateAndReturnError(v); err != nil {
		s.logger.Warn("grpc.extract_file.invalid", "req_id", common.RequestIDFromContext(ctx), "error", v.ErrorMessage())
		return nil, err
	}

	return s.run(ctx, "extract_file", func(ctx context.Context) (entity.UniformRecord, error) {
		return s.pipeline.ProcessFile(ctx, path, docType)
	})
}

func (s *ExtractionServer) run(ctx context.Context, op string, fn func(context.Context) (entity.UniformRecord, error)) (*structpb.Struct, error) {
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()

	rec, err := fn(ctx)
	if err != nil {
		s.logger.Error("grpc."+op+".failed", "req_id", rid, "error", err)
		return nil, common.ToStatus(err)
	}
	out, err := RecordToStruct(rec)
	if err != nil {
		s.logger.Error("grpc."+op+".encode_failed", "req_id", rid, "error", err)
		return nil, common.InternalErrorf("encode record: %v", err)
	}
	s.logger.Info("grpc."+op+".ok",
		"req_id", rid,
		"document_type", rec.DocumentType,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// RenderSpreadsheet turns an invoice record into xlsx bytes.
func (s *ExtractionServer) RenderSpreadsheet(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	rec, err := StructToRecord(req)
	if err != nil {
		return nil, common.InvalidArgumentErrorf("record: %v", err)
	}
	b, err := s.renderer.Spreadsheet(rec)
	if err != nil {
		s.logger.Error("grpc.render_spreadsheet.failed", "req_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.InternalErrorf("render spreadsheet: %v", err)
	}
	return wrapperspb.Bytes(b), nil
}

// RenderSummary turns a contract record into a text report.
func (s *ExtractionServer) RenderSummary(_ context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	rec, err := StructToRecord(req)
	if err != nil {
		return nil, common.InvalidArgumentErrorf("record: %v", err)
	}
	return wrapperspb.String(s.renderer.Summary(rec)), nil
}

// Register adds the extraction service to a grpc server.
func Register(gs grpc.ServiceRegistrar, s *ExtractionServer) {
	gs.RegisterService(&ServiceDesc, s)
}

// NewGRPCServer builds a grpc server with the request-id interceptor, the
// extraction service and the standard health service marked SERVING.
func NewGRPCServer(s *ExtractionServer, logger *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(RequestIDInterceptor(logger)))
	gs := grpc.NewServer(opts...)
	Register(gs, s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return gs, hs
}
