package llm

import (
	"fmt"
	"log/slog"
	"time"
)

// CheckStructured validates model content against req.Schema. When strict
// validation fails and lenient is set, the content is sanitized and validated
// once more. It returns the JSON the caller should decode.
func CheckStructured(content []byte, req ExtractRequest, lenient bool, logger *slog.Logger, rid string, start time.Time) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	err := ValidateJSONAgainstSchema(req.Schema, content)
	if err == nil {
		return content, nil
	}
	if !lenient {
		logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "schema", req.SchemaName, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	cleaned, touched, sErr := SanitizeJSON(req.SchemaName, content, logger)
	if sErr != nil {
		logger.Error("llm.extract.sanitize_failed",
			"req_id", rid, "schema", req.SchemaName, "error", sErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("sanitize failed: %w", sErr)
	}
	if vErr := ValidateJSONAgainstSchema(req.Schema, cleaned); vErr != nil {
		logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "schema", req.SchemaName, "error", vErr, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("schema validation failed: %w", vErr)
	}
	logger.Warn("llm.extract.lenient_sanitize_applied",
		"req_id", rid, "schema", req.SchemaName, "touched", touched,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cleaned, nil
}
