// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Output file names.
const (
	ThresholdFile        = "threshold_results.csv"
	ThresholdSummaryFile = "threshold_summary.csv"
	ThreadFile           = "thread_results.csv"
	SummaryFile          = "summary.csv"
)

var (
	thresholdHeader        = []string{"Threads", "Threshold", "Time"}
	thresholdSummaryHeader = []string{"Threads", "Threshold", "Mean", "Std"}
	threadHeader           = []string{"Threads", "ForkJoin", "Parallel", "Sequential"}
	summaryHeader          = []string{
		"Threads",
		"ForkJoinMean", "ForkJoinStd",
		"ParallelMean", "ParallelStd",
		"SequentialMean", "SequentialStd",
		"ForkJoinSpeedup", "ParallelSpeedup",
	}
)

// Writer stores sweep results as CSV files in one directory.
type Writer struct {
	dir string
	log zerolog.Logger
}

// NewWriter returns a Writer for dir. The directory is created on first
// write.
func NewWriter(dir string, log zerolog.Logger) *Writer {
	return &Writer{dir: dir, log: log}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteThresholds writes threshold_results.csv: one row per run.
func (w *Writer) WriteThresholds(records []ThresholdRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, thresholdHeader)
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Threads),
			strconv.Itoa(r.Threshold),
			strconv.FormatInt(millis(r.Elapsed), 10),
		})
	}
	return w.write(ThresholdFile, rows)
}

// WriteThresholdSummary writes threshold_summary.csv: one row per
// (threads, threshold) with the mean and standard deviation of its runs.
func (w *Writer) WriteThresholdSummary(means []ThresholdMean) error {
	rows := make([][]string, 0, len(means)+1)
	rows = append(rows, thresholdSummaryHeader)
	for _, m := range means {
		rows = append(rows, []string{
			strconv.Itoa(m.Threads),
			strconv.Itoa(m.Threshold),
			formatMillis(m.MeanMillis),
			formatMillis(m.StdMillis),
		})
	}
	return w.write(ThresholdSummaryFile, rows)
}

// WriteThresholdPhase writes threshold_results.csv and threshold_summary.csv
// concurrently.
func (w *Writer) WriteThresholdPhase(res *ThresholdResult) error {
	var g errgroup.Group
	g.Go(func() error { return w.WriteThresholds(res.Records) })
	g.Go(func() error { return w.WriteThresholdSummary(res.Means) })
	return g.Wait()
}

// WriteThreads writes thread_results.csv. Sequential rows leave ForkJoin and
// Parallel empty; the other rows leave Sequential empty.
func (w *Writer) WriteThreads(records []ThreadRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, threadHeader)
	for _, r := range records {
		switch r.Kind {
		case SequentialRecord:
			rows = append(rows, []string{
				strconv.Itoa(r.Threads), "", "",
				strconv.FormatInt(millis(r.Sequential), 10),
			})
		default:
			rows = append(rows, []string{
				strconv.Itoa(r.Threads),
				strconv.FormatInt(millis(r.ForkJoin), 10),
				strconv.FormatInt(millis(r.Parallel), 10),
				"",
			})
		}
	}
	return w.write(ThreadFile, rows)
}

// WriteSummary writes summary.csv.
func (w *Writer) WriteSummary(summary []SummaryRow) error {
	f := formatMillis
	rows := make([][]string, 0, len(summary)+1)
	rows = append(rows, summaryHeader)
	for _, s := range summary {
		rows = append(rows, []string{
			strconv.Itoa(s.Threads),
			f(s.ForkJoinMean), f(s.ForkJoinStd),
			f(s.ParallelMean), f(s.ParallelStd),
			f(s.SequentialMean), f(s.SequentialStd),
			f(s.ForkJoinSpeedup), f(s.ParallelSpeedup),
		})
	}
	return w.write(SummaryFile, rows)
}

// WriteThreadPhase writes thread_results.csv and summary.csv concurrently.
func (w *Writer) WriteThreadPhase(records []ThreadRecord, summary []SummaryRow) error {
	var g errgroup.Group
	g.Go(func() error { return w.WriteThreads(records) })
	g.Go(func() error { return w.WriteSummary(summary) })
	return g.Wait()
}

func formatMillis(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func (w *Writer) write(name string, rows [][]string) (err error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", name, cerr)
		}
	}()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	w.log.Info().Str("file", path).Int("rows", len(rows)-1).Msg("results written")
	return nil
}
