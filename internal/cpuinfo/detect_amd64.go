// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build amd64

package cpuinfo

import "golang.org/x/sys/cpu"

func detectFeatures() []string {
	var f []string
	if cpu.X86.HasSSE2 {
		f = append(f, "sse2")
	}
	if cpu.X86.HasAVX {
		f = append(f, "avx")
	}
	if cpu.X86.HasAVX2 {
		f = append(f, "avx2")
	}
	if cpu.X86.HasFMA {
		f = append(f, "fma")
	}
	if cpu.X86.HasAVX512F {
		f = append(f, "avx512f")
	}
	return f
}
