// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajroetker/matbench/contrib/forkjoin"
	"github.com/ajroetker/matbench/contrib/workerpool"
	"github.com/ajroetker/matbench/internal/cpuinfo"
	"github.com/ajroetker/matbench/mat"
	"github.com/ajroetker/matbench/matmul"
)

// ErrNoThreshold is returned when the thread sweep has no threshold for a
// thread count.
var ErrNoThreshold = errors.New("bench: no fork-join threshold for thread count")

// Harness runs the threshold and thread-count sweeps described by a Config.
type Harness struct {
	cfg    Config
	log    zerolog.Logger
	writer *Writer
	now    func() time.Time
	// wrap, if set, decorates every strategy before it is measured.
	wrap func(matmul.Multiplier) matmul.Multiplier

	workerPools   map[int]*workerpool.Pool
	forkJoinPools map[int]*forkjoin.Pool
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithLogger sets the progress logger. The default discards everything.
func WithLogger(l zerolog.Logger) HarnessOption {
	return func(h *Harness) {
		h.log = l
	}
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) HarnessOption {
	return func(h *Harness) {
		h.now = now
	}
}

// New validates cfg and returns a Harness writing results under
// cfg.OutputDir.
func New(cfg Config, opts ...HarnessOption) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Harness{
		cfg:           cfg,
		log:           zerolog.Nop(),
		now:           time.Now,
		workerPools:   make(map[int]*workerpool.Pool),
		forkJoinPools: make(map[int]*forkjoin.Pool),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.writer = NewWriter(cfg.OutputDir, h.log)
	return h, nil
}

// Config returns the harness configuration.
func (h *Harness) Config() Config {
	return h.cfg
}

// Report is the outcome of a full Run.
type Report struct {
	Host       cpuinfo.Info
	Config     Config
	Thresholds []ThresholdRecord
	Means      []ThresholdMean
	Best       BestThresholds
	Threads    []ThreadRecord
	Summary    []SummaryRow
	Elapsed    time.Duration
}

// Run executes the threshold sweep (unless a fixed threshold is configured)
// followed by the thread-count sweep, writing each phase's CSV files. A
// correctness mismatch aborts the run and is returned as a wrapped
// *mat.MismatchError; file write failures are logged and do not.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	start := h.now()
	defer h.Close(ctx)

	report := &Report{Host: cpuinfo.Detect(), Config: h.cfg}
	h.log.Info().
		Str("arch", report.Host.Arch).
		Int("cpus", report.Host.NumCPU).
		Str("features", report.Host.FeatureString()).
		Int("size", h.cfg.Size).
		Int64("seed", h.cfg.Seed).
		Int("iterations", h.cfg.Iterations).
		Int("max_threads", h.cfg.MaxThreads).
		Msg("starting benchmark")

	gen := mat.NewGenerator(h.cfg.Size, h.cfg.Seed)

	if h.cfg.FixedThreshold > 0 {
		report.Best = make(BestThresholds, h.cfg.MaxThreads)
		for _, threads := range h.cfg.ThreadCounts() {
			report.Best[threads] = h.cfg.FixedThreshold
		}
		h.log.Info().Int("threshold", h.cfg.FixedThreshold).Msg("using fixed threshold, skipping threshold sweep")
	} else {
		a, b := gen.Generate(), gen.Generate()
		res, err := h.ThresholdSweep(ctx, a, b)
		if err != nil {
			return nil, fmt.Errorf("threshold sweep: %w", err)
		}
		report.Thresholds, report.Means, report.Best = res.Records, res.Means, res.Best
		h.persist(ThresholdFile, func() error { return h.writer.WriteThresholdPhase(res) })
	}

	a, b := gen.Generate(), gen.Generate()
	records, err := h.ThreadSweep(ctx, a, b, report.Best)
	if err != nil {
		return nil, fmt.Errorf("thread sweep: %w", err)
	}
	report.Threads = records
	report.Summary = Summarize(records)
	h.persist(ThreadFile, func() error { return h.writer.WriteThreadPhase(records, report.Summary) })

	report.Elapsed = h.now().Sub(start)
	return report, nil
}

// persist runs a best-effort write: failures are logged, never returned.
func (h *Harness) persist(name string, write func() error) {
	if err := write(); err != nil {
		h.log.Error().Err(err).Str("file", name).Msg("error writing results to file")
	}
}

// ThresholdResult is the output of ThresholdSweep.
type ThresholdResult struct {
	// Records holds every run in generation order.
	Records []ThresholdRecord
	// Means holds one entry per (threads, threshold), in sweep order.
	Means []ThresholdMean
	Best  BestThresholds
}

// ThresholdSweep runs ForkJoin(threads, threshold) Iterations times for every
// thread count and every power-of-two threshold up to N, and keeps, per
// thread count, the threshold with the lowest mean.
func (h *Harness) ThresholdSweep(ctx context.Context, a, b *mat.Matrix) (*ThresholdResult, error) {
	res := &ThresholdResult{Best: make(BestThresholds, h.cfg.MaxThreads)}
	iterations := h.cfg.Iterations

	for _, threads := range h.cfg.ThreadCounts() {
		h.log.Info().Int("threads", threads).Msg("analyzing performance")

		var perThreads []ThresholdMean
		for _, threshold := range h.cfg.Thresholds() {
			h.log.Debug().Int("threads", threads).Int("threshold", threshold).Msg("testing threshold")

			var total int64
			runs := make([]float64, 0, iterations)
			for i := range iterations {
				h.log.Trace().Int("iteration", i+1).Msg("iteration")

				fj := h.forkJoin(threads, threshold)
				elapsed, err := h.measure(ctx, fj, a, b, mat.New(a.Size()))
				if err != nil {
					return nil, err
				}
				total += millis(elapsed)
				runs = append(runs, float64(millis(elapsed)))
				res.Records = append(res.Records, ThresholdRecord{
					Threads:   threads,
					Threshold: threshold,
					Elapsed:   elapsed,
				})
			}

			_, std := meanStd(runs)
			perThreads = append(perThreads, ThresholdMean{
				Threads:    threads,
				Threshold:  threshold,
				MeanMillis: float64(total) / float64(iterations),
				StdMillis:  std,
			})
		}

		winner := best(perThreads)
		res.Best[threads] = winner.Threshold
		res.Means = append(res.Means, perThreads...)
		h.log.Info().Int("threads", threads).Int("threshold", winner.Threshold).
			Float64("mean_ms", winner.MeanMillis).Msg("best threshold")
	}
	return res, nil
}

// ThreadSweep runs, Iterations times, the sequential baseline once followed
// by ForkJoin (with thresholds[threads]) and FlatParallel for every thread count,
// cross-validating the three outputs. The first mismatch stops the sweep.
func (h *Harness) ThreadSweep(ctx context.Context, a, b *mat.Matrix, thresholds BestThresholds) ([]ThreadRecord, error) {
	n := a.Size()
	var records []ThreadRecord

	for i := range h.cfg.Iterations {
		h.log.Info().Int("iteration", i+1).Msg("iteration")

		cSequential := mat.New(n)
		h.log.Debug().Msg("running sequential")
		seqTime, err := h.measure(ctx, matmul.NewSequential(), a, b, cSequential)
		if err != nil {
			return nil, err
		}
		records = append(records, ThreadRecord{Kind: SequentialRecord, Threads: 1, Sequential: seqTime})

		for _, threads := range h.cfg.ThreadCounts() {
			threshold, ok := thresholds[threads]
			if !ok {
				return nil, fmt.Errorf("%w: %d", ErrNoThreshold, threads)
			}
			cParallel, cForkJoin := mat.New(n), mat.New(n)

			h.log.Debug().Int("threads", threads).Int("threshold", threshold).Msg("running fork-join")
			fjTime, err := h.measure(ctx, h.forkJoin(threads, threshold), a, b, cForkJoin)
			if err != nil {
				return nil, err
			}
			h.log.Debug().Int("threads", threads).Msg("running parallel")
			parTime, err := h.measure(ctx, h.flatParallel(threads), a, b, cParallel)
			if err != nil {
				return nil, err
			}

			err = mat.CompareAll(cSequential, map[string]*mat.Matrix{
				matmul.NameParallel: cParallel,
				matmul.NameForkJoin: cForkJoin,
			}, matmul.NameParallel, matmul.NameForkJoin)
			if err != nil {
				return nil, fmt.Errorf("iteration %d, %d threads: results are not equal: %w", i+1, threads, err)
			}

			records = append(records, ThreadRecord{
				Kind:     ParallelRecord,
				Threads:  threads,
				ForkJoin: fjTime,
				Parallel: parTime,
			})
		}
	}
	return records, nil
}

// measure times a single Multiply call at millisecond resolution.
func (h *Harness) measure(ctx context.Context, m matmul.Multiplier, a, b, c *mat.Matrix) (time.Duration, error) {
	if h.wrap != nil {
		m = h.wrap(m)
	}
	start := h.now()
	err := m.Multiply(ctx, a, b, c)
	elapsed := h.now().Sub(start).Truncate(time.Millisecond)
	if err != nil {
		return 0, err
	}
	return elapsed, nil
}

func (h *Harness) strategyOptions() []matmul.Option {
	return []matmul.Option{
		matmul.WithGracePeriod(h.cfg.GracePeriod),
		matmul.WithLogger(h.log),
	}
}

func (h *Harness) forkJoin(threads, threshold int) *matmul.ForkJoin {
	opts := h.strategyOptions()
	if h.cfg.ReusePools {
		p, ok := h.forkJoinPools[threads]
		if !ok {
			p = forkjoin.NewPool(threads)
			h.forkJoinPools[threads] = p
		}
		opts = append(opts, matmul.WithForkJoinPool(p))
	}
	return matmul.NewForkJoin(threads, threshold, opts...)
}

func (h *Harness) flatParallel(threads int) *matmul.FlatParallel {
	opts := h.strategyOptions()
	if h.cfg.ReusePools {
		p, ok := h.workerPools[threads]
		if !ok {
			p = workerpool.New(threads)
			h.workerPools[threads] = p
		}
		opts = append(opts, matmul.WithWorkerPool(p))
	}
	return matmul.NewFlatParallel(threads, opts...)
}

// Close shuts down the pools kept by ReusePools. Run calls it on return;
// callers driving the sweeps directly must call it themselves.
func (h *Harness) Close(ctx context.Context) {
	for threads, p := range h.workerPools {
		if err := p.Shutdown(ctx, h.cfg.GracePeriod); err != nil {
			h.log.Warn().Err(err).Int("threads", threads).Msg("worker pool terminated")
		}
		delete(h.workerPools, threads)
	}
	for threads, p := range h.forkJoinPools {
		if err := p.Shutdown(ctx, h.cfg.GracePeriod); err != nil {
			h.log.Warn().Err(err).Int("threads", threads).Msg("fork-join pool terminated")
		}
		delete(h.forkJoinPools, threads)
	}
}
