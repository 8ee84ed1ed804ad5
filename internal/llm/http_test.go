package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/docmind/internal/common"
)

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(common.WithRequestID(context.Background(), "req-1"))
	assert.Equal(t, "req-1", id)
	assert.Equal(t, "req-1", common.RequestIDFromContext(ctx))

	ctx, id = EnsureRequestID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, common.RequestIDFromContext(ctx))
}
