package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemapIsPermutation(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {4, 3}, {3, 4}, {7, 5}, {16, 16}} {
		w, h := dims[0], dims[1]
		for rot := Rotate0; rot <= Rotate270; rot++ {
			seen := make([]bool, w*h)
			for idx := 0; idx < w*h; idx++ {
				p := Remap(idx, w, h, rot)
				if !assert.True(t, p >= 0 && p < w*h, "%dx%d rot %s idx %d -> %d", w, h, rot, idx, p) {
					return
				}
				assert.False(t, seen[p], "%dx%d rot %s hits %d twice", w, h, rot, p)
				seen[p] = true
			}
		}
	}
}

func TestRemapCorners(t *testing.T) {
	// 3 wide, 2 tall; top-left pixel idx 0, top-right idx 2
	tests := []struct {
		rot      Rotation
		topLeft  int
		topRight int
	}{
		{Rotate0, 0, 2},
		// rotated buffer is 2 wide, 3 tall
		{Rotate90, 1, 5},
		{Rotate180, 5, 3},
		{Rotate270, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.rot.String(), func(t *testing.T) {
			assert.Equal(t, tt.topLeft, Remap(0, 3, 2, tt.rot))
			assert.Equal(t, tt.topRight, Remap(2, 3, 2, tt.rot))
		})
	}
}

func TestRotatedSize(t *testing.T) {
	w, h := RotatedSize(4, 3, Rotate90)
	assert.Equal(t, [2]int{3, 4}, [2]int{w, h})
	w, h = RotatedSize(4, 3, Rotate180)
	assert.Equal(t, [2]int{4, 3}, [2]int{w, h})
}
