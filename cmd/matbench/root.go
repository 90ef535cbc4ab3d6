// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/matbench/bench"
	"github.com/ajroetker/matbench/mat"
)

type flags struct {
	cfg      bench.Config
	logLevel string
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.cfg.Size, "size", "n", f.cfg.Size, "matrix dimension N")
	fs.Int64Var(&f.cfg.Seed, "seed", f.cfg.Seed, "random seed for the input matrices")
	fs.IntVarP(&f.cfg.Iterations, "iterations", "i", f.cfg.Iterations, "repetitions per measured combination")
	fs.IntVarP(&f.cfg.MaxThreads, "max-threads", "t", f.cfg.MaxThreads, "largest thread count to sweep (sweeps 1..max)")
	fs.StringVarP(&f.cfg.OutputDir, "output", "o", f.cfg.OutputDir, "directory for the CSV results")
	fs.IntVar(&f.cfg.FixedThreshold, "fixed-threshold", f.cfg.FixedThreshold, "use this fork-join threshold for every thread count and skip the threshold sweep (0 = sweep)")
	fs.DurationVar(&f.cfg.GracePeriod, "grace", f.cfg.GracePeriod, "grace period for pool shutdown before termination")
	fs.BoolVar(&f.cfg.ReusePools, "reuse-pools", f.cfg.ReusePools, "create one pool per thread count and reuse it across iterations")
	fs.StringVar(&f.logLevel, "log-level", f.logLevel, "log level (trace, debug, info, warn, error)")
}

func newRootCmd(log zerolog.Logger) *cobra.Command {
	f := &flags{cfg: bench.DefaultConfig(), logLevel: zerolog.LevelInfoValue}

	cmd := &cobra.Command{
		Use:           "matbench",
		Short:         "Benchmark sequential, flat-parallel and fork-join matrix multiplication",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := zerolog.ParseLevel(f.logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			return run(cmd, f.cfg, log.Level(level))
		},
	}
	f.register(cmd.Flags())
	return cmd
}

// execute runs cmd and logs any error it returns, including flag parsing
// errors, which cobra does not print since SilenceErrors is set.
func execute(cmd *cobra.Command, log zerolog.Logger) error {
	err := cmd.Execute()
	if err == nil {
		return nil
	}
	var me *mat.MismatchError
	switch {
	case errors.As(err, &me):
		log.Error().Err(err).Str("strategy", me.Strategy).Msg("results are not equal")
	case errors.Is(err, bench.ErrInvalidConfig):
		log.Error().Err(err).Msg("invalid configuration")
	default:
		log.Error().Err(err).Msg("benchmark failed")
	}
	return err
}

func run(cmd *cobra.Command, cfg bench.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := bench.New(cfg, bench.WithLogger(log))
	if err != nil {
		return err
	}

	report, err := h.Run(ctx)
	if err != nil {
		return err
	}

	for _, threads := range report.Best.Threads() {
		log.Debug().Int("threads", threads).Int("threshold", report.Best[threads]).Msg("threshold used")
	}
	log.Info().Dur("elapsed", report.Elapsed).Str("output", cfg.OutputDir).Msg("Done!")
	return nil
}
