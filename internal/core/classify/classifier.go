// Package classify decides which extraction strategy a document goes to.
package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

// Classifier maps raw document text to a category.
type Classifier interface {
	Classify(ctx context.Context, text string) (entity.Classification, error)
}

// Resolve applies a manual override before asking c. Overrides that are
// non-empty and not "auto" are returned verbatim, without scoring.
func Resolve(ctx context.Context, c Classifier, text, override string, logger *slog.Logger) (entity.Classification, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if constants.IsOverride(override) {
		cat := constants.Category(strings.TrimSpace(override))
		logger.Info("classify.override", "category", cat)
		return entity.Classification{Category: cat, Method: entity.MethodOverride}, nil
	}
	return c.Classify(ctx, text)
}
