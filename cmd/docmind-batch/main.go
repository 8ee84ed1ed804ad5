package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joseph-ayodele/docmind/internal/app"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/core/async"
	"github.com/joseph-ayodele/docmind/internal/entity"
	"github.com/joseph-ayodele/docmind/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory of documents to process (required)")
		out        = flag.String("out", "", "output directory (defaults to <dir>/docmind-out)")
		docType    = flag.String("type", "", "document type override; empty or \"auto\" classifies")
		exts       = flag.String("ext", "", "comma-separated extensions to include (defaults to all supported)")
		workers    = flag.Int("workers", 4, "concurrent documents")
		jobTimeout = flag.Duration("timeout", 3*time.Minute, "per-document timeout")
		watch      = flag.Bool("watch", false, "keep running and process files as they appear")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(*dir, "docmind-out")
	}

	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	var succeeded, failed atomic.Int32
	var mu sync.Mutex
	var failures []string
	handle := func(job async.Job, rec entity.UniformRecord, err error) {
		if err != nil {
			failed.Add(1)
			mu.Lock()
			failures = append(failures, fmt.Sprintf("%s: %v", job.Path, err))
			mu.Unlock()
			return
		}
		paths, err := a.Renderer.WriteFiles(*out, job.Path, rec)
		if err != nil {
			failed.Add(1)
			logger.Error("batch.write.failed", "path", job.Path, "error", err)
			return
		}
		succeeded.Add(1)
		logger.Info("batch.written", "source", job.Path, "outputs", paths, "validation_log", rec.ValidationLog)
	}

	q := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(*workers),
		async.WithQueueSize(*workers*4),
		async.WithProcessTimeout(*jobTimeout),
		async.WithResultHandler(handle),
	)

	var extList []string
	if *exts != "" {
		extList = strings.Split(*exts, ",")
	}
	filter := ingest.NewFilter(extList, true, *out)

	start := time.Now()
	if *watch {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*dir},
			Filter:      filter,
			InitialScan: true,
			Debounce:    500 * time.Millisecond,
		}, logger)
		if err != nil {
			logger.Error("failed to start watcher", "dir", *dir, "error", err)
			os.Exit(1)
		}
		go func() {
			for err := range errs {
				logger.Warn("batch.watch.error", "error", err)
			}
		}()
		logger.Info("watching for documents", "dir", *dir, "out", *out)
		for path := range events {
			if err := q.Enqueue(ctx, async.Job{Path: path, Override: *docType}); err != nil {
				break
			}
		}
	} else {
		paths, stats, err := ingest.Walk(ctx, *dir, filter, logger)
		if err != nil {
			logger.Error("failed to walk directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("starting batch", "dir", *dir, "documents", stats.Matched, "workers", *workers)
		for _, p := range paths {
			if err := q.Enqueue(ctx, async.Job{Path: p, Override: *docType}); err != nil {
				logger.Warn("batch.enqueue.stopped", "error", err)
				break
			}
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), *jobTimeout+30*time.Second)
	defer cancel()
	q.Shutdown(drainCtx)

	logger.Info("batch.done",
		"succeeded", succeeded.Load(),
		"failed", failed.Load(),
		"out", *out,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	for _, f := range failures {
		printError("FAILED %s\n", f)
	}
	if failed.Load() > 0 {
		os.Exit(2)
	}
}
