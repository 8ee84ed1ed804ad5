package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docmind/internal/entity"
)

type stubProcessor struct {
	calls atomic.Int32
	fail  string
}

func (s *stubProcessor) ProcessFile(_ context.Context, path, override string) (entity.UniformRecord, error) {
	s.calls.Add(1)
	if path == s.fail {
		return entity.UniformRecord{}, errors.New("boom")
	}
	var rec entity.UniformRecord
	rec.DocumentType = override
	return rec, nil
}

func TestQueueProcessesAllJobs(t *testing.T) {
	proc := &stubProcessor{fail: "bad.pdf"}

	var mu sync.Mutex
	results := map[string]error{}
	q := NewProcessorQueue(proc, nil,
		WithWorkers(3),
		WithQueueSize(2),
		WithResultHandler(func(job Job, rec entity.UniformRecord, err error) {
			mu.Lock()
			defer mu.Unlock()
			results[job.Path] = err
			if err == nil {
				assert.Equal(t, job.Override, rec.DocumentType)
			}
		}),
	)

	paths := []string{"a.pdf", "b.png", "bad.pdf", "c.txt", "d.pdf"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p, Override: "invoice"}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Equal(t, int32(len(paths)), proc.calls.Load())
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, results, len(paths))
	assert.Error(t, results["bad.pdf"])
	assert.NoError(t, results["a.pdf"])
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&stubProcessor{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Path: "late.pdf"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}
