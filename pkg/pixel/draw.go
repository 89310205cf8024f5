package pixel

// Drawing primitives write straight into the frame buffer without applying
// the image rotation. Colours are packed as R<<16 | G<<8 | B and stored in
// the image's native format. None of them report errors: nil images,
// unsupported formats and out of range coordinates are silently ignored.

// DrawPoint sets the pixel at linear index x + y*width. Only the linear
// index is bounds checked, so an x past the right edge lands on a later row.
func DrawPoint(img *Image, x, y int, color uint32) {
	if img == nil || x < 0 || y < 0 {
		return
	}
	pc := codecFor(img.Format)
	if pc == nil || img.Data == nil {
		return
	}
	idx := x + y*img.Width
	if idx >= img.Width*img.Height || (idx+1)*pc.bytesPerPixel() > len(img.Data) {
		return
	}
	pc.write(img.Data, idx, rgbFromColor(color))
}

// FillRect fills [x, x+w) x [y, y+h) clipped to the frame
func FillRect(img *Image, x, y, w, h int, color uint32) {
	if img == nil || img.Data == nil {
		return
	}
	pc := codecFor(img.Format)
	if pc == nil {
		return
	}
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	w = min(w, img.Width-x)
	h = min(h, img.Height-y)
	if w <= 0 || h <= 0 {
		return
	}
	bpp := pc.bytesPerPixel()
	if (img.Width*(y+h-1)+x+w)*bpp > len(img.Data) {
		return
	}

	// encode once, then stamp the pixel bytes row by row
	var px [3]byte
	pc.write(px[:], 0, rgbFromColor(color))
	pattern := px[:bpp]
	lineStep := (img.Width - w) * bpp
	cursor := (x + y*img.Width) * bpp
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			copy(img.Data[cursor:cursor+bpp], pattern)
			cursor += bpp
		}
		cursor += lineStep
	}
}

// DrawHLine draws row y from x0 to x1 inclusive
func DrawHLine(img *Image, x0, x1, y int, color uint32) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	FillRect(img, x0, y, x1-x0+1, 1, color)
}

// DrawVLine draws column x from y0 to y1 inclusive
func DrawVLine(img *Image, x, y0, y1 int, color uint32) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	FillRect(img, x, y0, 1, y1-y0+1, color)
}

// DrawRect outlines the rectangle with corners (x, y) and (x+w, y+h). Each
// unit of thickness adds a ring one pixel further inside. A thickness beyond
// half of w or h makes the rings cross; that is not clamped.
func DrawRect(img *Image, x, y, w, h int, color uint32, thickness int) {
	for i := 0; i < thickness; i++ {
		DrawHLine(img, x+i, x+w-i, y+i, color)
		DrawHLine(img, x+i, x+w-i, y+h-i, color)
		DrawVLine(img, x+i, y+i, y+h-i, color)
		DrawVLine(img, x+w-i, y+i, y+h-i, color)
	}
}
