//go:build !amd64 && !arm64

package hwy

func init() {
	// Other architectures (wasm, riscv64, ...) run the portable loops.
	setScalarMode()
}

// HasVNNI returns false on non-x86 platforms.
func HasVNNI() bool {
	return false
}

// HasDotProd returns false on non-ARM platforms.
func HasDotProd() bool {
	return false
}
