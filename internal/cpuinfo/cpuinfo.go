// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package cpuinfo describes the host a benchmark ran on, so that recorded
// timings can be interpreted later.
//
// Detection runs once and is cached.
package cpuinfo

import (
	"runtime"
	"strings"
	"sync"
)

// Info is a snapshot of the host's processing resources.
type Info struct {
	Arch       string
	OS         string
	NumCPU     int
	GOMAXPROCS int
	// Features lists the SIMD extensions reported by the CPU, e.g. "avx2".
	Features []string
}

var (
	detectOnce sync.Once
	detected   Info
)

// Detect returns the cached host description.
func Detect() Info {
	detectOnce.Do(func() {
		detected = Info{
			Arch:       runtime.GOARCH,
			OS:         runtime.GOOS,
			NumCPU:     runtime.NumCPU(),
			GOMAXPROCS: runtime.GOMAXPROCS(0),
			Features:   detectFeatures(),
		}
	})
	return detected
}

// MaxThreads returns the number of processing units available to the
// process, the upper bound of thread-count sweeps.
func MaxThreads() int {
	return max(runtime.GOMAXPROCS(0), 1)
}

// FeatureString joins Features with commas, or returns "none".
func (i Info) FeatureString() string {
	if len(i.Features) == 0 {
		return "none"
	}
	return strings.Join(i.Features, ",")
}
