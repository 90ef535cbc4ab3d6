// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build arm64

package cpuinfo

import "golang.org/x/sys/cpu"

func detectFeatures() []string {
	var f []string
	// ASIMD (NEON) is part of the ARMv8-A base architecture.
	if cpu.ARM64.HasASIMD {
		f = append(f, "neon")
	}
	if cpu.ARM64.HasFPHP {
		f = append(f, "fp16")
	}
	if cpu.ARM64.HasSVE {
		f = append(f, "sve")
	}
	return f
}
