//go:build arm64

package hwy

import (
	"os"

	"golang.org/x/sys/cpu"
)

func init() {
	// Check for HWY_NO_SIMD environment variable first
	if NoSimdEnv() {
		setScalarMode()
		return
	}

	// ARM64 (AArch64) always has NEON (ASIMD) available.
	// It's part of the ARMv8-A base architecture.
	if cpu.ARM64.HasASIMD {
		currentLevel = DispatchNEON
		currentWidth = 16 // NEON is 128-bit (16 bytes)
	} else {
		setScalarMode()
	}

	// SVE keeps the 16-byte block width: the int8 kernels are written for
	// 128-bit granules and SVE implementations are at least that wide.
	if cpu.ARM64.HasSVE && os.Getenv("HWY_NO_SVE") == "" {
		currentLevel = DispatchSVE
	}
}

// HasVNNI returns false on ARM64 (VNNI is x86-specific).
func HasVNNI() bool {
	return false
}

// HasDotProd reports whether the CPU has the ARMv8.2 SDOT/UDOT instructions.
func HasDotProd() bool {
	return !NoSimdEnv() && cpu.ARM64.HasASIMDDP
}
