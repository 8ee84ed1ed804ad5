package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docmind/constants"
)

// fakeRunner answers by binary name. pdftoppm writes empty page files under
// the requested prefix so the glob finds them.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	pages   int
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	if err := f.errs[name]; err != nil {
		return nil, []byte(name + " failed"), err
	}
	if name == "pdftoppm" {
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			p := prefix + "-" + string(rune('0'+i)) + ".png"
			if err := os.WriteFile(p, nil, 0o600); err != nil {
				return nil, nil, err
			}
		}
	}
	return []byte(f.outputs[name]), nil, nil
}

const invoiceText = "ACME SUPPLIES INC\nInvoice #INV-1001   Date: 2024-03-01\nBill To: Jane\n\n\n\nWidget    2   50.00   100.00\nTax 7.41\nTotal USD 107.41\n"

func TestExtractPDFTextLayer(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"pdftotext": invoiceText + "\f"}}
	e := NewExtractor(Config{}, r, nil)

	res, err := e.Extract(context.Background(), "/in/invoice.PDF")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "Tax 7.41")
	assert.NotContains(t, res.Text, "\n\n\n")
	assert.Greater(t, res.Confidence, float32(0.5))
	assert.Equal(t, []string{"pdftotext"}, r.calls)
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string]string{"pdftotext": "  \f", "tesseract": "Scanned page\nTotal 12.00\n-----\n"},
		pages:   2,
	}
	e := NewExtractor(Config{MaxPages: 5}, r, nil)

	res, err := e.Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 2, strings.Count(res.Text, "Scanned page"))
	assert.NotContains(t, res.Text, "-----")
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}, r.calls)
}

func TestExtractPDFOCRFailure(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string]string{"pdftotext": ""},
		errs:    map[string]error{"pdftoppm": errors.New("exit status 1")},
	}
	_, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf ocr")
}

func TestExtractImage(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"tesseract": "RECEIPT\r\nTotal\t$9.99\r\n"}}
	res, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "RECEIPT\nTotal $9.99", res.Text)
}

func TestExtractPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.txt")
	require.NoError(t, os.WriteFile(path, []byte("MUTUAL NDA\r\n\r\n\r\n\r\nWhereas..."), 0o600))

	r := &fakeRunner{}
	res, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plain-text", res.Method)
	assert.Equal(t, "MUTUAL NDA\n\nWhereas...", res.Text)
	assert.Empty(t, r.calls)
}

func TestExtractUnsupported(t *testing.T) {
	_, err := NewExtractor(Config{}, &fakeRunner{}, nil).Extract(context.Background(), "sheet.xlsx")
	assert.Error(t, err)
}

func TestNormalizeKeepsDigits(t *testing.T) {
	assert.Equal(t, "Tax 7.01\nTotal 107.01", Normalize("Tax   7.01  \r\nTotal\t107.01"))
}
