// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"labelscan/internal/observability"
	"labelscan/internal/source"
	"labelscan/internal/structured"
)

// WorkerPool runs one extraction per document across a fixed number of
// workers. Documents share no state, so results depend only on input.
type WorkerPool struct {
	workers   int
	jobs      chan *Job
	results   chan *Result
	wg        sync.WaitGroup
	extractor *structured.Extractor
	observer  *observability.StandardObserver
	load      func(ctx context.Context, path string) (*source.Document, error)
	closeOnce sync.Once
}

// Job is one document to scan. Document, when set, is used instead of
// loading Path.
type Job struct {
	Index    int
	Path     string
	Document *source.Document
}

// Result represents processing results
type Result struct {
	Index      int
	Path       string
	Text       string // the scanned text; span offsets refer to it
	Extraction *structured.Result
	Error      error
	Duration   time.Duration
}

// NewWorkerPool creates a pool. workers below 1 is treated as 1.
func NewWorkerPool(workers int, extractor *structured.Extractor, observer *observability.StandardObserver) *WorkerPool {
	workers = max(workers, 1)
	return &WorkerPool{
		workers:   workers,
		jobs:      make(chan *Job, workers*2),
		results:   make(chan *Result, workers*2),
		extractor: extractor,
		observer:  observer,
		load:      source.Load,
	}
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Start launches the workers. Results is closed once Close has been called
// and every submitted job has finished, or ctx is done.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go func() {
		wp.wg.Wait()
		close(wp.results)
	}()
}

// Submit queues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(ctx context.Context, job *Job) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs. It is safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() { close(wp.jobs) })
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			result := wp.processJob(ctx, job, id)
			select {
			case wp.results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (wp *WorkerPool) processJob(ctx context.Context, job *Job, workerID int) *Result {
	start := time.Now()
	finishTiming := wp.observer.StartTiming("worker_pool", "process_job", job.Path)

	result := &Result{Index: job.Index, Path: job.Path}

	doc := job.Document
	if doc == nil {
		var err error
		doc, err = wp.load(ctx, job.Path)
		if err != nil {
			result.Error = err
		}
	}

	if result.Error == nil {
		result.Text = doc.Text
		res, err := wp.extractor.Extract(doc.Text)
		if err != nil {
			result.Error = fmt.Errorf("extract %s: %w", job.Path, err)
		}
		result.Extraction = res
	}

	result.Duration = time.Since(start)

	spans := 0
	if result.Extraction != nil {
		spans = len(result.Extraction.Spans)
	}
	finishTiming(result.Error == nil, map[string]interface{}{
		"worker_id":  workerID,
		"span_count": spans,
		"had_error":  result.Error != nil,
	})

	return result
}
