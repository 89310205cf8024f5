package jpegenc

import "math/bits"

// writeByte appends to the bounded output; the first overflow sticks in e.err
func (e *Encoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	if e.n >= len(e.out) {
		e.err = ErrOutputFull
		return
	}
	e.out[e.n] = b
	e.n++
}

func (e *Encoder) write(p []byte) {
	for _, b := range p {
		e.writeByte(b)
	}
}

func (e *Encoder) writeMarker(marker byte) {
	e.write([]byte{0xFF, marker})
}

// writeSegment writes a marker and its big-endian length (which counts itself)
func (e *Encoder) writeSegment(marker byte, payload int) {
	n := payload + 2
	e.write([]byte{0xFF, marker, byte(n >> 8), byte(n)})
}

func (e *Encoder) writeAPP0() {
	e.writeSegment(markerAPP0, 14)
	e.write([]byte{
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version 1.1
		0x00,       // no density units
		0x00, 0x01, // x density
		0x00, 0x01, // y density
		0x00, 0x00, // no thumbnail
	})
}

func (e *Encoder) writeDQT() {
	e.writeSegment(markerDQT, nQuant*(1+blockSize))
	for i := range e.quant {
		e.writeByte(byte(i))
		e.write(e.quant[i][:])
	}
}

func (e *Encoder) writeSOF0(s *Session) {
	nc := s.components()
	e.writeSegment(markerSOF0, 6+3*nc)
	e.write([]byte{
		8, // sample precision
		byte(s.Height >> 8), byte(s.Height),
		byte(s.Width >> 8), byte(s.Width),
		byte(nc),
	})
	if nc == 1 {
		e.write([]byte{1, 0x11, quantLuma})
		return
	}
	lumaSampling := byte(0x11)
	if s.Subsampling == Subsample420 {
		lumaSampling = 0x22
	}
	e.write([]byte{
		1, lumaSampling, quantLuma,
		2, 0x11, quantChroma,
		3, 0x11, quantChroma,
	})
}

func (e *Encoder) writeDHT(nc int) {
	specs := huffSpecs[:]
	if nc == 1 {
		specs = specs[:2]
	}
	payload := 0
	for _, s := range specs {
		payload += 1 + 16 + len(s.symbols)
	}
	e.writeSegment(markerDHT, payload)
	// table class (DC=0, AC=1) << 4 | table id
	classID := []byte{0x00, 0x10, 0x01, 0x11}
	for i, s := range specs {
		e.writeByte(classID[i])
		e.write(s.counts[:])
		e.write(s.symbols)
	}
}

// writeSOS starts the single interleaved scan: Ss=0, Se=63, Ah/Al=0
func (e *Encoder) writeSOS(nc int) {
	e.writeSegment(markerSOS, 1+2*nc+3)
	e.writeByte(byte(nc))
	if nc == 1 {
		e.write([]byte{1, 0x00})
	} else {
		e.write([]byte{1, 0x00, 2, 0x11, 3, 0x11})
	}
	e.write([]byte{0x00, 0x3F, 0x00})
}

// emit appends the low nBits of b to the bit stream, stuffing 0x00 after 0xFF
func (e *Encoder) emit(b, nBits uint32) {
	nBits += e.nBits
	b <<= 32 - nBits
	b |= e.bits
	for nBits >= 8 {
		c := byte(b >> 24)
		e.writeByte(c)
		if c == 0xFF {
			e.writeByte(0x00)
		}
		b <<= 8
		nBits -= 8
	}
	e.bits, e.nBits = b, nBits
}

func (e *Encoder) emitHuff(table int, symbol int32) {
	c := huffLUTs[table][symbol]
	e.emit(uint32(c)&(1<<24-1), uint32(c)>>24)
}

// emitHuffRLE codes a (run, value) pair: the symbol run<<4|size then the
// size low bits of value in one's complement form for negatives
func (e *Encoder) emitHuffRLE(table int, run, value int32) {
	a, b := value, value
	if a < 0 {
		a, b = -value, value-1
	}
	size := uint32(bits.Len32(uint32(a)))
	e.emitHuff(table, run<<4|int32(size))
	if size > 0 {
		e.emit(uint32(b)&(1<<size-1), size)
	}
}

// writeBlock transforms, quantises and codes one block, returning its DC for
// the next delta. dcTable+1 is the matching AC table.
func (e *Encoder) writeBlock(b *block, q, dcTable int, prevDC int32) int32 {
	fdct(b)
	dc := div(b[0], 8*int32(e.quant[q][0]))
	e.emitHuffRLE(dcTable, 0, dc-prevDC)
	acTable, run := dcTable+1, int32(0)
	for zig := 1; zig < blockSize; zig++ {
		ac := div(b[unzig[zig]], 8*int32(e.quant[q][zig]))
		if ac == 0 {
			run++
			continue
		}
		for run > 15 {
			e.emitHuff(acTable, 0xF0)
			run -= 16
		}
		e.emitHuffRLE(acTable, run, ac)
		run = 0
	}
	if run > 0 {
		// end of block
		e.emitHuff(acTable, 0x00)
	}
	return dc
}
