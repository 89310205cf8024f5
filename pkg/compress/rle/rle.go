// Package rle compresses frame payloads with PackBits, one segment per byte
// plane, laid out like the DICOM RLE transfer syntax.
package rle

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxSegments is the number of offsets the segment table can hold
const MaxSegments = 15

// HeaderSize is the fixed segment table: a count followed by 15 offsets, all
// little-endian uint32
const HeaderSize = 4 + 4*MaxSegments

var (
	ErrPlanes    = errors.New("rle: plane count out of range")
	ErrHeader    = errors.New("rle: malformed segment table")
	ErrTruncated = errors.New("rle: segment shorter than its plane")
)

// Encode splits data into planes byte planes (plane p holds byte p of every
// pixel), PackBits encodes each plane into its own even length segment and
// prefixes the segment table.
func Encode(data []byte, planes int) ([]byte, error) {
	if planes < 1 || planes > MaxSegments {
		return nil, fmt.Errorf("%w: %d", ErrPlanes, planes)
	}
	if len(data)%planes != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d planes", ErrPlanes, len(data), planes)
	}

	n := len(data) / planes
	out := make([]byte, HeaderSize, HeaderSize+len(data)/2)
	binary.LittleEndian.PutUint32(out[0:], uint32(planes))
	plane := make([]byte, n)
	for p := 0; p < planes; p++ {
		for i := 0; i < n; i++ {
			plane[i] = data[i*planes+p]
		}
		binary.LittleEndian.PutUint32(out[4+4*p:], uint32(len(out)))
		out = append(out, EncodePackBits(plane)...)
		if len(out)%2 != 0 {
			// no-op pad keeps every segment word aligned
			out = append(out, 0x80)
		}
	}
	return out, nil
}

// Decode reverses Encode, producing exactly n bytes
func Decode(data []byte, planes, n int) ([]byte, error) {
	if planes < 1 || planes > MaxSegments {
		return nil, fmt.Errorf("%w: %d", ErrPlanes, planes)
	}
	if n < 0 || n%planes != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d planes", ErrPlanes, n, planes)
	}
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeader, len(data))
	}
	if count := int(binary.LittleEndian.Uint32(data)); count != planes {
		return nil, fmt.Errorf("%w: %d segments, expected %d", ErrHeader, count, planes)
	}

	offsets := make([]int, planes+1)
	for p := 0; p < planes; p++ {
		offsets[p] = int(binary.LittleEndian.Uint32(data[4+4*p:]))
	}
	offsets[planes] = len(data)
	for p := 0; p < planes; p++ {
		if offsets[p] < HeaderSize || offsets[p] > offsets[p+1] {
			return nil, fmt.Errorf("%w: segment %d at %d", ErrHeader, p, offsets[p])
		}
	}

	per := n / planes
	out := make([]byte, n)
	for p := 0; p < planes; p++ {
		plane, err := DecodePackBits(data[offsets[p]:offsets[p+1]], per)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", p, err)
		}
		if len(plane) < per {
			return nil, fmt.Errorf("%w: segment %d has %d of %d bytes", ErrTruncated, p, len(plane), per)
		}
		for i := 0; i < per; i++ {
			out[i*planes+p] = plane[i]
		}
	}
	return out, nil
}
