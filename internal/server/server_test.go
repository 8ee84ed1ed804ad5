package server

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/entity"
	"github.com/joseph-ayodele/docmind/internal/report"
)

type fakePipeline struct {
	rec      entity.UniformRecord
	err      error
	lastText string
	lastPath string
	lastType string
	lastRID  string
}

func (p *fakePipeline) Run(ctx context.Context, text, override string) (entity.UniformRecord, error) {
	p.lastText, p.lastType = text, override
	p.lastRID = common.RequestIDFromContext(ctx)
	return p.rec, p.err
}

func (p *fakePipeline) ProcessFile(ctx context.Context, path, override string) (entity.UniformRecord, error) {
	p.lastPath, p.lastType = path, override
	p.lastRID = common.RequestIDFromContext(ctx)
	return p.rec, p.err
}

func sampleInvoice() entity.UniformRecord {
	return entity.UniformRecord{InvoiceRecord: entity.InvoiceRecord{
		VendorName:    "Acme",
		InvoiceNumber: "INV-42",
		InvoiceDate:   "2024-03-01",
		Currency:      "USD",
		TotalAmount:   107.41,
		TaxAmount:     7.41,
		LineItems: []entity.LineItem{
			{Description: "Widget", Quantity: 2, UnitPrice: 50, TotalPrice: 100},
		},
		ValidationLog: "Fixed by Engineering Validator (Missing Tax)",
		DocumentType:  "invoice",
	}}
}

func startServer(t *testing.T, p Pipeline) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs, _ := NewGRPCServer(NewExtractionServer(p, report.NewRenderer(nil), nil), nil)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestExtract(t *testing.T) {
	p := &fakePipeline{rec: sampleInvoice()}
	client := NewClient(startServer(t, p))

	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "rid-123")
	var header metadata.MD
	out, err := client.Extract(ctx, mustStruct(t, map[string]any{
		"text":     "INVOICE #INV-42",
		"doc_type": " invoice ",
	}), grpc.Header(&header))
	require.NoError(t, err)

	assert.Equal(t, "INVOICE #INV-42", p.lastText)
	assert.Equal(t, "invoice", p.lastType)
	assert.Equal(t, "rid-123", p.lastRID)
	assert.Equal(t, []string{"rid-123"}, header.Get(RequestIDHeader))

	assert.Equal(t, "Acme", out.GetFields()["vendor_name"].GetStringValue())
	assert.InDelta(t, 107.41, out.GetFields()["total_amount"].GetNumberValue(), 1e-9)
	items := out.GetFields()["line_items"].GetListValue().GetValues()
	require.Len(t, items, 1)

	rec, err := StructToRecord(out)
	require.NoError(t, err)
	assert.Equal(t, sampleInvoice(), rec)
}

func TestExtractValidation(t *testing.T) {
	p := &fakePipeline{rec: sampleInvoice()}
	client := NewClient(startServer(t, p))

	_, err := client.Extract(context.Background(), mustStruct(t, map[string]any{"text": "  "}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ExtractFile(context.Background(), mustStruct(t, map[string]any{"doc_type": "invoice"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Empty(t, p.lastPath)
}

func TestExtractErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"parse", common.NewStageError(common.StageParse, common.ErrParseFailed, "no text", nil), codes.FailedPrecondition},
		{"extract", common.NewStageError(common.StageExtract, common.ErrExtractionFailed, "model", errors.New("503")), codes.Unavailable},
		{"deadline", common.NewStageError(common.StageExtract, common.ErrExtractionFailed, "model", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"other", errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := NewClient(startServer(t, &fakePipeline{err: tc.err}))
			_, err := client.ExtractFile(context.Background(), mustStruct(t, map[string]any{"path": "/docs/a.pdf"}))
			assert.Equal(t, tc.code, status.Code(err))
		})
	}
}

func TestRenderers(t *testing.T) {
	client := NewClient(startServer(t, &fakePipeline{}))

	in, err := RecordToStruct(sampleInvoice())
	require.NoError(t, err)
	xlsx, err := client.RenderSpreadsheet(context.Background(), in)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(xlsx.GetValue()))
	require.NoError(t, err)
	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	contract := entity.UniformRecord{ContractType: "NDA", OverallRiskLevel: "Low", RiskAnalysis: "Standard."}
	in, err = RecordToStruct(contract)
	require.NoError(t, err)
	summary, err := client.RenderSummary(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, summary.GetValue(), "Type: NDA\nRisk: Low")
}

func TestHealth(t *testing.T) {
	conn := startServer(t, &fakePipeline{})
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
