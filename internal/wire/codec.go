package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Byte-level encoding used by transports that frame their collective
// messages as byte payloads. Everything is little-endian. The in-process
// transport hands typed slices around directly and does not use this codec.

// appendFixed64 appends each value as a little-endian 64-bit word.
func appendFixed64[T constraints.Integer](dst []byte, vals []T) []byte {
	for _, v := range vals {
		dst = binary.LittleEndian.AppendUint64(dst, uint64(v))
	}
	return dst
}

// decodeFixed64 decodes n little-endian 64-bit words from src.
func decodeFixed64[T constraints.Integer](src []byte, n int) ([]T, error) {
	if len(src) != n*8 {
		return nil, fmt.Errorf("payload is %d bytes, want %d", len(src), n*8)
	}
	out := make([]T, n)
	for i := range out {
		out[i] = T(binary.LittleEndian.Uint64(src[i*8:]))
	}
	return out, nil
}

// AppendGlobals appends global indices to dst.
func AppendGlobals(dst []byte, vals []GlobalIndex) []byte {
	return appendFixed64(dst, vals)
}

// DecodeGlobals decodes n global indices from src.
func DecodeGlobals(src []byte, n int) ([]GlobalIndex, error) {
	return decodeFixed64[GlobalIndex](src, n)
}

// AppendSizes appends sizes to dst.
func AppendSizes(dst []byte, vals []Size) []byte {
	return appendFixed64(dst, vals)
}

// DecodeSizes decodes n sizes from src.
func DecodeSizes(src []byte, n int) ([]Size, error) {
	return decodeFixed64[Size](src, n)
}

// AppendScalars appends scalars to dst using their IEEE-754 bit patterns.
func AppendScalars(dst []byte, vals []Scalar) []byte {
	for _, v := range vals {
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(float64(v)))
	}
	return dst
}

// DecodeScalars decodes n scalars from src.
func DecodeScalars(src []byte, n int) ([]Scalar, error) {
	if len(src) != n*8 {
		return nil, fmt.Errorf("payload is %d bytes, want %d", len(src), n*8)
	}
	out := make([]Scalar, n)
	for i := range out {
		out[i] = Scalar(math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:])))
	}
	return out, nil
}

// AppendHandle appends a handle as a little-endian 32-bit word.
func AppendHandle(dst []byte, h Handle) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(h))
}

// DecodeHandle decodes a handle from src.
func DecodeHandle(src []byte) (Handle, error) {
	if len(src) != 4 {
		return 0, fmt.Errorf("payload is %d bytes, want 4", len(src))
	}
	return Handle(binary.LittleEndian.Uint32(src)), nil
}
