// ABOUTME: Text-area pixel geometry via the TIOCGWINSZ ioctl
// ABOUTME: Lets cell-ratio detection skip the escape-sequence query

//go:build !windows

package term

import "golang.org/x/sys/unix"

// ioctlPixelGeometry reads the winsize struct for fd. Many terminals
// leave the pixel fields zero; callers treat that as "not reported".
func ioctlPixelGeometry(fd int) (pxW, pxH, cols, rows int, ok bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	if ws.Xpixel == 0 || ws.Ypixel == 0 || ws.Col == 0 || ws.Row == 0 {
		return 0, 0, 0, 0, false
	}
	return int(ws.Xpixel), int(ws.Ypixel), int(ws.Col), int(ws.Row), true
}
