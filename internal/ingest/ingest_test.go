package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("INVOICE"), 0o644))
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	writeFile(t, filepath.Join(root, "b.pdf"))
	writeFile(t, filepath.Join(root, "a.PNG"))
	writeFile(t, filepath.Join(root, "notes.docx"))
	writeFile(t, filepath.Join(root, ".hidden.pdf"))
	writeFile(t, filepath.Join(root, ".cache", "x.pdf"))
	writeFile(t, filepath.Join(root, "nested", "c.txt"))
	writeFile(t, filepath.Join(out, "c_summary.txt"))

	paths, stats, err := Walk(context.Background(), root, NewFilter(nil, true, out), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.PNG"),
		filepath.Join(root, "b.pdf"),
		filepath.Join(root, "nested", "c.txt"),
	}, paths)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Zero(t, stats.Failed)
}

func TestWalkExtensionsAndErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"))
	writeFile(t, filepath.Join(root, "b.png"))

	paths, _, err := Walk(context.Background(), root, NewFilter([]string{".PDF"}, false), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.pdf")}, paths)

	_, _, err = Walk(context.Background(), " ", Filter{}, nil)
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	f := NewFilter(nil, true)
	assert.True(t, f.Match("/docs/inv.pdf"))
	assert.True(t, f.Match("/docs/scan.TIFF"))
	assert.False(t, f.Match("/docs/inv.heic"))
	assert.False(t, f.Match("/docs/.inv.pdf"))
	assert.True(t, f.SkipDir("/docs/.git"))
	assert.False(t, IsHidden("."))
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "existing.pdf"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		Filter:      NewFilter(nil, true),
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	next := func() string {
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatal("no watcher event")
			return ""
		}
	}
	assert.Equal(t, filepath.Join(root, "existing.pdf"), next())

	writeFile(t, filepath.Join(root, "ignored.docx"))
	writeFile(t, filepath.Join(root, "new.png"))
	assert.Equal(t, filepath.Join(root, "new.png"), next())

	cancel()
	for range events {
	}
}

func TestStartWatcherNoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}
