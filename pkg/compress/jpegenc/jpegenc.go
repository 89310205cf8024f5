// Package jpegenc is a baseline JPEG encoder driven one minimum coded unit
// (MCU) at a time into a caller supplied, fixed capacity buffer.
//
// A session follows a strict sequence:
//
//	enc := jpegenc.New()
//	enc.Open(buf)
//	s, _ := enc.Begin(w, h, jpegenc.PixelRGB888, jpegenc.Subsample444, jpegenc.QualityBest)
//	for s.Remaining() > 0 {
//		enc.AddMCU(s, pix[s.X*3+s.Y*pitch:], pitch)
//	}
//	n, _ := enc.Close()
//
// An Encoder holds the state of one session and is not safe for concurrent
// use; create one per goroutine.
package jpegenc

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	ErrNoBuffer    = errors.New("jpegenc: nil output buffer")
	ErrNotOpen     = errors.New("jpegenc: encoder not open")
	ErrOutputFull  = errors.New("jpegenc: output buffer full")
	ErrBadGeometry = errors.New("jpegenc: bad geometry")
	ErrShortData   = errors.New("jpegenc: mcu data shorter than its geometry")
	ErrComplete    = errors.New("jpegenc: all mcus already added")
	ErrIncomplete  = errors.New("jpegenc: session closed before the last mcu")
)

// PixelFormat is the layout of the pixel data handed to AddMCU
type PixelFormat uint8

const (
	PixelGrayscale PixelFormat = iota
	// PixelRGB565 is big-endian: RRRRRGGG GGGBBBBB
	PixelRGB565
	PixelRGB888
)

// BytesPerPixel returns 0 for unknown formats
func (pf PixelFormat) BytesPerPixel() int {
	switch pf {
	case PixelGrayscale:
		return 1
	case PixelRGB565:
		return 2
	case PixelRGB888:
		return 3
	}
	return 0
}

// Subsampling selects the chroma resolution of colour images
type Subsampling uint8

const (
	Subsample444 Subsampling = iota
	Subsample420
)

// Quality selects a quantisation level
type Quality uint8

const (
	QualityBest Quality = iota
	QualityHigh
	QualityMedium
	QualityLow
)

// IJG returns the equivalent IJG 1-100 quality factor
func (q Quality) IJG() int {
	switch q {
	case QualityBest:
		return 95
	case QualityHigh:
		return 85
	case QualityMedium:
		return 75
	default:
		return 50
	}
}

// Session is the geometry of the frame being encoded. X and Y are the
// origin of the next MCU to submit and advance after every AddMCU.
type Session struct {
	Width       int
	Height      int
	MCUWidth    int
	MCUHeight   int
	X           int
	Y           int
	Format      PixelFormat
	Subsampling Subsampling
	Quality     Quality
}

// MCUs returns the size of the MCU grid
func (s *Session) MCUs() int {
	return ((s.Width + s.MCUWidth - 1) / s.MCUWidth) * ((s.Height + s.MCUHeight - 1) / s.MCUHeight)
}

// Remaining returns how many MCUs are still expected
func (s *Session) Remaining() int {
	if s.Y >= s.Height {
		return 0
	}
	perRow := (s.Width + s.MCUWidth - 1) / s.MCUWidth
	rowsLeft := (s.Height - s.Y + s.MCUHeight - 1) / s.MCUHeight
	return rowsLeft*perRow - s.X/s.MCUWidth
}

// Encoder writes one JPEG stream per Open/Close cycle
type Encoder struct {
	out []byte
	n   int
	err error
	// bits and nBits are pending bits not yet flushed to out
	bits, nBits uint32
	quant       [nQuant][blockSize]byte
	prevDC      [3]int32
	session     *Session
	open        bool
}

// New returns an idle encoder
func New() *Encoder {
	return &Encoder{}
}

// Open resets the encoder to write into buf. The encoded stream never grows
// past len(buf).
func (e *Encoder) Open(buf []byte) error {
	if buf == nil {
		return ErrNoBuffer
	}
	*e = Encoder{out: buf, open: true}
	return nil
}

// Begin writes the stream headers and returns the MCU geometry. Grayscale
// frames always use 8x8 MCUs; colour frames use 8x8 for 4:4:4 and 16x16 for
// 4:2:0.
func (e *Encoder) Begin(width, height int, pf PixelFormat, sub Subsampling, q Quality) (*Session, error) {
	if !e.open {
		return nil, ErrNotOpen
	}
	if e.session != nil {
		return nil, fmt.Errorf("%w: session already begun", ErrBadGeometry)
	}
	if width <= 0 || height <= 0 || width >= 1<<16 || height >= 1<<16 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadGeometry, width, height)
	}
	if pf.BytesPerPixel() == 0 {
		return nil, fmt.Errorf("%w: pixel format %d", ErrBadGeometry, pf)
	}
	if sub != Subsample444 && sub != Subsample420 {
		return nil, fmt.Errorf("%w: subsampling %d", ErrBadGeometry, sub)
	}
	s := &Session{
		Width:       width,
		Height:      height,
		MCUWidth:    8,
		MCUHeight:   8,
		Format:      pf,
		Subsampling: sub,
		Quality:     q,
	}
	if pf != PixelGrayscale && sub == Subsample420 {
		s.MCUWidth, s.MCUHeight = 16, 16
	}
	e.quant = scaledQuant(q.IJG())

	e.writeMarker(markerSOI)
	e.writeAPP0()
	e.writeDQT()
	e.writeSOF0(s)
	e.writeDHT(s.components())
	e.writeSOS(s.components())
	if e.err != nil {
		return nil, e.err
	}
	e.session = s
	return s, nil
}

func (s *Session) components() int {
	if s.Format == PixelGrayscale {
		return 1
	}
	return 3
}

// AddMCU encodes the MCU whose top-left pixel is data[0]; rows are pitch
// bytes apart. MCUs overhanging the right or bottom edge replicate the last
// column or row.
func (e *Encoder) AddMCU(s *Session, data []byte, pitch int) error {
	if !e.open || e.session == nil || s != e.session {
		return ErrNotOpen
	}
	if e.err != nil {
		return e.err
	}
	if s.Y >= s.Height {
		return ErrComplete
	}
	bpp := s.Format.BytesPerPixel()
	cols := min(s.MCUWidth, s.Width-s.X)
	rows := min(s.MCUHeight, s.Height-s.Y)
	if need := (rows-1)*pitch + cols*bpp; pitch < cols*bpp || len(data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d (pitch %d)", ErrShortData, len(data), need, pitch)
	}
	m := mcuReader{data: data, pitch: pitch, bpp: bpp, format: s.Format, cols: cols, rows: rows}

	var y, cb, cr block
	switch {
	case s.Format == PixelGrayscale:
		m.gray(0, 0, &y)
		e.prevDC[0] = e.writeBlock(&y, quantLuma, huffLumaDC, e.prevDC[0])
	case s.Subsampling == Subsample420:
		var cbs, crs [4]block
		for i := 0; i < 4; i++ {
			m.ycbcr((i&1)*8, (i>>1)*8, &y, &cbs[i], &crs[i])
			e.prevDC[0] = e.writeBlock(&y, quantLuma, huffLumaDC, e.prevDC[0])
		}
		downsample(&cb, &cbs)
		e.prevDC[1] = e.writeBlock(&cb, quantChroma, huffChromaDC, e.prevDC[1])
		downsample(&cr, &crs)
		e.prevDC[2] = e.writeBlock(&cr, quantChroma, huffChromaDC, e.prevDC[2])
	default:
		m.ycbcr(0, 0, &y, &cb, &cr)
		e.prevDC[0] = e.writeBlock(&y, quantLuma, huffLumaDC, e.prevDC[0])
		e.prevDC[1] = e.writeBlock(&cb, quantChroma, huffChromaDC, e.prevDC[1])
		e.prevDC[2] = e.writeBlock(&cr, quantChroma, huffChromaDC, e.prevDC[2])
	}
	if e.err != nil {
		return e.err
	}

	s.X += s.MCUWidth
	if s.X >= s.Width {
		s.X = 0
		s.Y += s.MCUHeight
	}
	return nil
}

// Close finishes the entropy coded segment, writes EOI and returns the
// stream length. The encoder is idle afterwards.
func (e *Encoder) Close() (int, error) {
	if !e.open {
		return 0, ErrNotOpen
	}
	defer func() {
		e.open = false
		e.session = nil
	}()
	if e.session == nil || e.session.Remaining() > 0 {
		return 0, ErrIncomplete
	}
	// pad the final byte with ones
	e.emit(0x7f, 7)
	e.writeMarker(markerEOI)
	if e.err != nil {
		return 0, e.err
	}
	return e.n, nil
}

// mcuReader extracts blocks from one MCU of raw pixels, clamping reads to
// the valid cols x rows region
type mcuReader struct {
	data   []byte
	pitch  int
	bpp    int
	format PixelFormat
	cols   int
	rows   int
}

func (m *mcuReader) rgb(x, y int) (r, g, b uint8) {
	off := min(y, m.rows-1)*m.pitch + min(x, m.cols-1)*m.bpp
	p := m.data[off : off+m.bpp]
	switch m.format {
	case PixelRGB565:
		r5, g6, b5 := p[0]>>3, (p[0]&0x07)<<3|p[1]>>5, p[1]&0x1F
		return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
	case PixelRGB888:
		return p[0], p[1], p[2]
	default:
		return p[0], p[0], p[0]
	}
}

func (m *mcuReader) gray(x0, y0 int, yb *block) {
	for j := 0; j < 8; j++ {
		for i := 0; i < 8; i++ {
			v, _, _ := m.rgb(x0+i, y0+j)
			yb[8*j+i] = int32(v)
		}
	}
}

func (m *mcuReader) ycbcr(x0, y0 int, yb, cbb, crb *block) {
	for j := 0; j < 8; j++ {
		for i := 0; i < 8; i++ {
			r, g, b := m.rgb(x0+i, y0+j)
			yy, cb, cr := color.RGBToYCbCr(r, g, b)
			yb[8*j+i] = int32(yy)
			cbb[8*j+i] = int32(cb)
			crb[8*j+i] = int32(cr)
		}
	}
}

// downsample averages four 8x8 blocks covering 16x16 pixels into one
func downsample(dst *block, src *[4]block) {
	for i := 0; i < 4; i++ {
		dstOff := (i&2)<<4 | (i&1)<<2
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				j := 16*y + 2*x
				sum := src[i][j] + src[i][j+1] + src[i][j+8] + src[i][j+9]
				dst[8*y+x+dstOff] = (sum + 2) >> 2
			}
		}
	}
}
