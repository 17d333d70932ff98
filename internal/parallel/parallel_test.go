// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelscan/internal/source"
	"labelscan/internal/structured"
)

func writeDocs(t *testing.T, n int) []*Job {
	t.Helper()
	dir := t.TempDir()
	jobs := make([]*Job, 0, n)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("card%02d.txt", i))
		body := fmt.Sprintf("MRN: %08d\nDOB: 01/15/1980", 10000000+i)
		require.NoError(t, os.WriteFile(p, []byte(body), 0600))
		jobs = append(jobs, &Job{Path: p})
	}
	return jobs
}

func TestProcessJobsOrderAndStats(t *testing.T) {
	jobs := writeDocs(t, 12)
	jobs = append(jobs, &Job{Path: filepath.Join(t.TempDir(), "missing.txt")})

	var progressed atomic.Int32
	pp := NewParallelProcessor(4, structured.NewExtractor(structured.Options{}), nil)
	results, stats, err := pp.ProcessJobs(context.Background(), jobs, func(done, total int, _ string) {
		progressed.Add(1)
		assert.Equal(t, 13, total)
	})
	require.NoError(t, err)
	require.Len(t, results, 13)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, jobs[i].Path, r.Path)
	}
	for _, r := range results[:12] {
		require.NoError(t, r.Error)
		require.Len(t, r.Extraction.Spans, 2)
		assert.Equal(t, "MRN", r.Extraction.Spans[0].EntityType)
		assert.NotEmpty(t, r.Text)
	}
	assert.ErrorIs(t, results[12].Error, os.ErrNotExist)

	assert.EqualValues(t, 13, progressed.Load())
	assert.Equal(t, 13, stats.TotalFiles)
	assert.Equal(t, 12, stats.ProcessedFiles)
	assert.Equal(t, 1, stats.FailedFiles)
	assert.Equal(t, 24, stats.TotalSpans)
	assert.Equal(t, 4, stats.WorkerCount)
}

func TestProcessJobsPreloadedDocument(t *testing.T) {
	doc := &source.Document{Path: "-", Kind: source.KindText, Text: "SSN: 123-45-6789"}
	pp := NewParallelProcessor(0, structured.NewExtractor(structured.Options{}), nil)

	results, stats, err := pp.ProcessJobs(context.Background(), []*Job{{Path: "-", Document: doc}}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Error)
	assert.Equal(t, "SSN", results[0].Extraction.Spans[0].EntityType)
	assert.Equal(t, 1, stats.WorkerCount)
}

func TestProcessJobsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pp := NewParallelProcessor(2, structured.NewExtractor(structured.Options{}), nil)
	results, _, err := pp.ProcessJobs(ctx, writeDocs(t, 50), nil)
	if len(results) < 50 {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestWorkerPoolDirect(t *testing.T) {
	pool := NewWorkerPool(0, structured.NewExtractor(structured.Options{}), nil)
	assert.Equal(t, 1, pool.Workers())

	ctx := context.Background()
	pool.Start(ctx)
	require.NoError(t, pool.Submit(ctx, &Job{Index: 7, Document: &source.Document{Text: "DOB: 01/15/1980"}}))
	pool.Close()
	pool.Close()

	var got []*Result
	for r := range pool.Results() {
		got = append(got, r)
	}
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Index)
	assert.Len(t, got[0].Extraction.Spans, 1)
}

func TestDefaultWorkers(t *testing.T) {
	w := DefaultWorkers()
	assert.GreaterOrEqual(t, w, 1)
	assert.LessOrEqual(t, w, MaxDefaultWorkers)
}
