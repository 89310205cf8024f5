package pixel

// Remap converts a linear index into the unrotated width x height grid to the
// physical offset in a buffer holding the rotated frame. For 90 and 270 the
// physical buffer is height pixels wide.
func Remap(idx, width, height int, rot Rotation) int {
	switch rot {
	case Rotate90:
		return (idx%width)*height + (height - 1 - idx/width)
	case Rotate180:
		return (width - 1 - idx%width) + (height-1-idx/width)*width
	case Rotate270:
		return (width-1-idx%width)*height + idx/width
	default:
		return idx
	}
}

// RotatedSize returns the physical dimensions of a width x height frame
// after rot is applied.
func RotatedSize(width, height int, rot Rotation) (int, int) {
	if rot == Rotate90 || rot == Rotate270 {
		return height, width
	}
	return width, height
}
