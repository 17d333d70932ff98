// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"labelscan/internal/config"
	"labelscan/internal/formatters"
	_ "labelscan/internal/formatters/csv"
	_ "labelscan/internal/formatters/json"
	_ "labelscan/internal/formatters/text"
	_ "labelscan/internal/formatters/yaml"
	"labelscan/internal/observability"
	"labelscan/internal/parallel"
	"labelscan/internal/paths"
	"labelscan/internal/source"
	"labelscan/internal/structured"
	"labelscan/internal/suppressions"
)

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [files, dirs or globs...]",
		Short: "Extract labeled fields from documents",
		Long: `Scan reads each file (text, PDF, or JPEG/TIFF with EXIF text) and reports
the labeled sensitive fields it contains. With no files, or "-", text is read
from standard input. Directories are scanned recursively for supported files
and glob patterns such as "scans/**/*.pdf" are expanded. Values are masked
unless --show-text is given.`,
		RunE: a.runScan,
	}

	f := cmd.Flags()
	f.StringP("format", "f", "", "output format: "+strings.Join(formatters.List(), ", "))
	f.StringP("output", "o", "", "write results to this file instead of stdout")
	f.StringSlice("types", nil, "only report these entity types (e.g. DATE_DOB,MRN)")
	f.Bool("show-text", false, "print extracted values instead of masks")
	f.Int("workers", 0, "documents scanned in parallel (0 = one per CPU, max 8)")
	f.Int("max-value-length", 0, "longest value window in bytes when no label follows")
	f.BoolP("verbose", "v", false, "include per-document counters")
	f.String("suppressions", "", "suppression rules file (default: "+paths.GetSuppressionsFile()+")")
	f.Bool("no-suppress", false, "report suppressed findings too")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := a.log.With("cmd", "scan", "run", uuid.NewString())

	opts, err := a.extractionOptions()
	if err != nil {
		return err
	}
	opts.Logger = log

	obsLevel := observability.ObservabilityOff
	if a.v.GetBool("debug") {
		obsLevel = observability.ObservabilityDebug
	}
	opts.Observer = observability.NewStandardObserver(obsLevel, a.stderr)

	sm, err := suppressions.NewSuppressionManager(a.v.GetString("suppressions"))
	if err != nil {
		return err
	}
	sm.SetEnabled(!a.v.GetBool("no-suppress"))

	jobs, err := a.collectJobs(cmd, args)
	if err != nil {
		return err
	}

	pp := parallel.NewParallelProcessor(a.v.GetInt("workers"), structured.NewExtractor(opts), opts.Observer)
	results, stats, err := pp.ProcessJobs(ctx, jobs, nil)
	if err != nil {
		return err
	}
	log.Debug("scan finished",
		"documents", stats.TotalFiles,
		"failed", stats.FailedFiles,
		"spans", stats.TotalSpans,
		"workers", stats.WorkerCount,
		"duration_ms", stats.TotalDuration.Milliseconds())

	reports := make([]formatters.Report, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			log.Warn("document failed", "path", r.Path, "err", r.Error)
			reports = append(reports, formatters.ErrorReport(r.Path, r.Error))
			continue
		}
		report := formatters.NewReport(r.Path, r.Text, r.Extraction)
		report.Findings, report.Suppressed = suppressFindings(sm, r.Path, report.Findings)
		if report.Suppressed > 0 {
			log.Debug("findings suppressed", "path", r.Path, "count", report.Suppressed)
		}
		reports = append(reports, report)
	}

	outPath := a.v.GetString("output")
	fopts := formatters.FormatterOptions{
		ShowText: a.v.GetBool("show-text"),
		NoColor:  a.v.GetBool("no-color") || outPath != "" || !isTerminal(a.stdout),
		Verbose:  a.v.GetBool("verbose"),
	}
	out, err := formatters.Export(a.v.GetString("format"), reports, fopts)
	if err != nil {
		return err
	}

	if err := a.writeOutput(outPath, out); err != nil {
		return err
	}

	if stats.FailedFiles > 0 {
		return fmt.Errorf("%d of %d document(s) failed", stats.FailedFiles, stats.TotalFiles)
	}
	return nil
}

func suppressFindings(sm *suppressions.SuppressionManager, path string, findings []formatters.Finding) ([]formatters.Finding, int) {
	kept := findings[:0:0]
	for _, f := range findings {
		if ok, _ := sm.IsSuppressed(path, f.Span); ok {
			continue
		}
		kept = append(kept, f)
	}
	return kept, len(findings) - len(kept)
}

// extractionOptions merges config extraction settings with flag and env
// overrides.
func (a *app) extractionOptions() (structured.Options, error) {
	opts, err := a.cfg.ExtractionOptions()
	if err != nil {
		return opts, err
	}
	opts.MaxValueLength = a.v.GetInt("max-value-length")
	if opts.MaxValueLength <= 0 {
		return opts, fmt.Errorf("max-value-length must be positive, got %d", opts.MaxValueLength)
	}
	opts.Types, err = config.ParseTypes(splitList(a.v.GetStringSlice("types")))
	return opts, err
}

// splitList splits comma separated entries, as env values arrive unsplit.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (a *app) collectJobs(cmd *cobra.Command, args []string) ([]*parallel.Job, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	jobs := make([]*parallel.Job, 0, len(args))
	for _, arg := range args {
		if paths.IsStdin(arg) {
			doc, err := source.LoadReader(cmd.Context(), "-", a.stdin)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, &parallel.Job{Path: "-", Document: doc})
			continue
		}
		if err := paths.ValidatePath(arg); err != nil {
			return nil, err
		}
		files, err := expandArg(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			jobs = append(jobs, &parallel.Job{Path: f})
		}
	}
	return jobs, nil
}

// expandArg resolves a directory to the supported files beneath it and a
// glob pattern to its matches. Anything else is returned as is and left for
// the loader to report.
func expandArg(arg string) ([]string, error) {
	if info, err := os.Stat(arg); err == nil {
		if !info.IsDir() {
			return []string{arg}, nil
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(arg, "**", "*"), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", arg, err)
		}
		slices.Sort(matches)
		files := matches[:0]
		for _, m := range matches {
			if source.Supported(m) {
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no supported files in %s", arg)
		}
		return files, nil
	}

	if !strings.ContainsAny(arg, "*?[{") {
		return []string{arg}, nil
	}
	matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", arg, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", arg)
	}
	slices.Sort(matches)
	return matches, nil
}

func (a *app) writeOutput(outPath, out string) error {
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if outPath == "" {
		_, err := fmt.Fprint(a.stdout, out)
		return err
	}
	if err := os.WriteFile(filepath.Clean(outPath), []byte(out), 0600); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	a.log.Info("results written", "path", outPath)
	return nil
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
