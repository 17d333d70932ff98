// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"runtime"
	"sort"
	"time"

	"labelscan/internal/observability"
	"labelscan/internal/structured"
)

// MaxDefaultWorkers caps DefaultWorkers.
const MaxDefaultWorkers = 8

// ParallelProcessor scans a batch of documents with a WorkerPool.
type ParallelProcessor struct {
	workers   int
	extractor *structured.Extractor
	observer  *observability.StandardObserver
}

// ProcessingStats tracks parallel processing statistics
type ProcessingStats struct {
	TotalFiles     int           `json:"total_files"`
	ProcessedFiles int           `json:"processed_files"`
	FailedFiles    int           `json:"failed_files"`
	TotalSpans     int           `json:"total_spans"`
	TotalDuration  time.Duration `json:"total_duration_ms"`
	WorkerCount    int           `json:"worker_count"`
	AvgFileTime    time.Duration `json:"avg_file_time_ms"`
}

// DefaultWorkers returns one worker per CPU, capped at MaxDefaultWorkers.
func DefaultWorkers() int {
	return min(runtime.NumCPU(), MaxDefaultWorkers)
}

// NewParallelProcessor creates a processor. workers <= 0 uses DefaultWorkers.
func NewParallelProcessor(workers int, extractor *structured.Extractor, observer *observability.StandardObserver) *ParallelProcessor {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &ParallelProcessor{
		workers:   workers,
		extractor: extractor,
		observer:  observer,
	}
}

// ProgressCallback is called when a file is completed
type ProgressCallback func(completed, total int, currentFile string)

// ProcessJobs scans every job and returns results in job order. Per-document
// failures are reported in Result.Error; the returned error is only set when
// ctx is cancelled before all results arrive.
func (pp *ParallelProcessor) ProcessJobs(ctx context.Context, jobs []*Job, progress ProgressCallback) ([]*Result, *ProcessingStats, error) {
	start := time.Now()
	finishTiming := pp.observer.StartTiming("parallel_processor", "process_jobs", "batch")

	workers := min(pp.workers, max(len(jobs), 1))
	pool := NewWorkerPool(workers, pp.extractor, pp.observer)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.Start(ctx)

	// Submit from a separate goroutine so results can drain concurrently.
	go func() {
		defer pool.Close()
		for i, job := range jobs {
			job.Index = i
			if err := pool.Submit(ctx, job); err != nil {
				return
			}
		}
	}()

	results := make([]*Result, 0, len(jobs))
	stats := &ProcessingStats{TotalFiles: len(jobs), WorkerCount: workers}
	var busy time.Duration

	for result := range pool.Results() {
		results = append(results, result)
		busy += result.Duration
		if result.Error != nil {
			stats.FailedFiles++
			pp.observer.LogOperation(observability.StandardObservabilityData{
				Component: "parallel_processor",
				Operation: "process_document",
				Document:  result.Path,
				Success:   false,
				Error:     result.Error.Error(),
			})
		} else {
			stats.ProcessedFiles++
			stats.TotalSpans += len(result.Extraction.Spans)
		}
		if progress != nil {
			progress(len(results), len(jobs), result.Path)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	stats.TotalDuration = time.Since(start)
	stats.AvgFileTime = busy / time.Duration(max(len(results), 1))

	var err error
	if len(results) < len(jobs) {
		err = ctx.Err()
	}

	finishTiming(err == nil, map[string]interface{}{
		"total_files":     stats.TotalFiles,
		"processed_files": stats.ProcessedFiles,
		"failed_files":    stats.FailedFiles,
		"total_spans":     stats.TotalSpans,
		"worker_count":    workers,
	})

	return results, stats, err
}
