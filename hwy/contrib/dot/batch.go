package dot

// DotInt8Rows computes the inner product of vec against len(dst)
// consecutive rows of mat, where row j starts at mat[j*stride].
// Only the first len(vec) elements of each row take part.
//
// This is the shape of a 1x1 convolution: one input pixel against a block
// of output-channel filters.
func DotInt8Rows(ip InnerProduct, vec, mat []int8, stride int, dst []int32) {
	k := len(vec)
	if len(dst) > 0 && len(mat) < (len(dst)-1)*stride+k {
		panic("dot: mat slice too short")
	}
	for j := range dst {
		off := j * stride
		dst[j] = ip.DotInt8(vec, mat[off:off+k])
	}
}

// SumInt8 returns the wrapping int32 sum of the elements of a.
func SumInt8(a []int8) int32 {
	var s int32
	for _, v := range a {
		s += int32(v)
	}
	return s
}
