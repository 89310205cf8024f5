package rle

import (
	"bytes"
	"errors"
	"fmt"
)

// PackBits run length coding as used by TIFF and the DICOM RLE transfer
// syntax (PS3.5 Annex G). A header byte n in [0, 127] is followed by n+1
// literal bytes; n in [-127, -1] repeats the next byte -n+1 times; -128 is a
// no-op used for padding.

// EncodePackBits compresses data. Runs of two or more identical bytes are
// replicated; literal spans break before a run of three.
func EncodePackBits(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	var buf bytes.Buffer
	i := 0
	for i < len(data) {
		runLen := 1
		for i+runLen < len(data) && runLen < 128 && data[i+runLen] == data[i] {
			runLen++
		}

		if runLen > 1 {
			buf.WriteByte(byte(int8(-(runLen - 1))))
			buf.WriteByte(data[i])
			i += runLen
			continue
		}

		litLen := 1
		for i+litLen < len(data) && litLen < 128 {
			if i+litLen+2 < len(data) &&
				data[i+litLen] == data[i+litLen+1] &&
				data[i+litLen] == data[i+litLen+2] {
				break
			}
			litLen++
		}
		buf.WriteByte(byte(litLen - 1))
		buf.Write(data[i : i+litLen])
		i += litLen
	}
	return buf.Bytes()
}

// DecodePackBits expands data. With expectedLen > 0 decoding stops once that
// many bytes are produced, which skips segment padding.
func DecodePackBits(data []byte, expectedLen int) ([]byte, error) {
	var buf bytes.Buffer
	if expectedLen > 0 {
		buf.Grow(expectedLen)
	}

	i := 0
	for i < len(data) {
		if expectedLen > 0 && buf.Len() >= expectedLen {
			break
		}

		n := int8(data[i])
		i++

		switch {
		case n == -128:
			continue
		case n >= 0:
			count := int(n) + 1
			if i+count > len(data) {
				return nil, fmt.Errorf("rle: compressed data truncated in literal run (i=%d, count=%d, len=%d)", i, count, len(data))
			}
			buf.Write(data[i : i+count])
			i += count
		default:
			if i >= len(data) {
				return nil, errors.New("rle: compressed data truncated in replicate run")
			}
			val := data[i]
			i++
			for k := 0; k < int(-n)+1; k++ {
				buf.WriteByte(val)
			}
		}
	}
	return buf.Bytes(), nil
}
