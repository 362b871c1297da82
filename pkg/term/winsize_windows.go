// ABOUTME: Windows stub for pixel geometry
// ABOUTME: Forces fallback to the escape-sequence query path

//go:build windows

package term

func ioctlPixelGeometry(fd int) (pxW, pxH, cols, rows int, ok bool) {
	return 0, 0, 0, 0, false
}
