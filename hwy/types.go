// Package hwy provides the runtime CPU dispatch shared by the quantized
// convolution kernels.
//
// It follows the Highway C++ library's design philosophy: detect the best
// instruction set once at startup, then let every kernel package pick its
// implementation from that decision. Setting HWY_NO_SIMD forces the portable
// scalar paths on any machine.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-qconv/hwy"
//
//	fmt.Println(hwy.CurrentName(), hwy.CurrentWidth())
//	lanes := hwy.MaxLanes[int8]()
//	size := hwy.RoundUp(channels, lanes)
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes interface {
	Floats | Integers
}
