package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

// WriteFiles stores the outputs for one source document in outDir:
// <file>.json always, <file>.xlsx for invoices, <file>_summary.txt for contracts,
// where <file> is the source base name with its extension, so a.pdf and a.png
// never share outputs. It returns the paths written.
func (r *Renderer) WriteFiles(outDir, source string, rec entity.UniformRecord) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	base := filepath.Join(outDir, filepath.Base(source))

	var written []string
	write := func(path string, b []byte) error {
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		written = append(written, path)
		return nil
	}

	js, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if err := write(base+".json", js); err != nil {
		return written, err
	}

	switch constants.Category(rec.DocumentType) {
	case constants.Invoice:
		xlsx, err := r.Spreadsheet(rec)
		if err != nil {
			return written, err
		}
		if err := write(base+".xlsx", xlsx); err != nil {
			return written, err
		}
	case constants.Contract:
		if err := write(base+"_summary.txt", []byte(r.Summary(rec))); err != nil {
			return written, err
		}
	}
	return written, nil
}
