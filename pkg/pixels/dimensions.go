// ABOUTME: Intrinsic size extraction from image header bytes without a full decode
// ABOUTME: Reads PNG IHDR, JPEG SOF, GIF screen descriptor, and WebP VP8 chunks

package pixels

import (
	"encoding/binary"
	"fmt"
)

// Dimensions holds an intrinsic pixel size.
type Dimensions struct {
	Width  int
	Height int
}

// Sniff extracts width and height from the header bytes of PNG, JPEG,
// GIF, or WebP data. It never decodes pixel data.
func Sniff(data []byte) (Dimensions, error) {
	if len(data) < 8 {
		return Dimensions{}, fmt.Errorf("data too short (%d bytes)", len(data))
	}

	switch {
	case data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return sniffPNG(data)
	case data[0] == 0xFF && data[1] == 0xD8:
		return sniffJPEG(data)
	case data[0] == 'G' && data[1] == 'I' && data[2] == 'F':
		return sniffGIF(data)
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return sniffWebP(data)
	}
	return Dimensions{}, fmt.Errorf("unrecognized image format")
}

// sniffPNG reads the IHDR chunk: width at bytes 16-19, height at 20-23,
// both big-endian uint32.
func sniffPNG(data []byte) (Dimensions, error) {
	if len(data) < 24 {
		return Dimensions{}, fmt.Errorf("PNG data too short for IHDR")
	}
	return Dimensions{
		Width:  int(binary.BigEndian.Uint32(data[16:20])),
		Height: int(binary.BigEndian.Uint32(data[20:24])),
	}, nil
}

// sniffJPEG scans segment markers for a start-of-frame (0xFFC0-0xFFC2).
func sniffJPEG(data []byte) (Dimensions, error) {
	i := 2
	for i < len(data)-1 {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker >= 0xC0 && marker <= 0xC2 {
			if i+9 >= len(data) {
				return Dimensions{}, fmt.Errorf("JPEG SOF truncated")
			}
			h := int(binary.BigEndian.Uint16(data[i+5 : i+7]))
			w := int(binary.BigEndian.Uint16(data[i+7 : i+9]))
			return Dimensions{Width: w, Height: h}, nil
		}
		if i+3 >= len(data) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 {
			break
		}
		i += 2 + segLen
	}
	return Dimensions{}, fmt.Errorf("JPEG SOF marker not found")
}

// sniffGIF reads the logical screen descriptor: width at bytes 6-7,
// height at 8-9, both little-endian uint16.
func sniffGIF(data []byte) (Dimensions, error) {
	if len(data) < 10 {
		return Dimensions{}, fmt.Errorf("GIF data too short for header")
	}
	return Dimensions{
		Width:  int(binary.LittleEndian.Uint16(data[6:8])),
		Height: int(binary.LittleEndian.Uint16(data[8:10])),
	}, nil
}

// sniffWebP handles the VP8 (lossy), VP8L (lossless), and VP8X (extended)
// chunk layouts.
func sniffWebP(data []byte) (Dimensions, error) {
	if len(data) < 16 {
		return Dimensions{}, fmt.Errorf("WebP data too short")
	}
	switch string(data[12:16]) {
	case "VP8 ":
		if len(data) < 30 {
			return Dimensions{}, fmt.Errorf("WebP VP8 data too short")
		}
		w := int(binary.LittleEndian.Uint16(data[26:28])) & 0x3FFF
		h := int(binary.LittleEndian.Uint16(data[28:30])) & 0x3FFF
		return Dimensions{Width: w, Height: h}, nil
	case "VP8L":
		if len(data) < 25 {
			return Dimensions{}, fmt.Errorf("WebP VP8L data too short")
		}
		bits := binary.LittleEndian.Uint32(data[21:25])
		return Dimensions{
			Width:  int(bits&0x3FFF) + 1,
			Height: int((bits>>14)&0x3FFF) + 1,
		}, nil
	case "VP8X":
		if len(data) < 30 {
			return Dimensions{}, fmt.Errorf("WebP VP8X data too short")
		}
		w := (int(data[24]) | int(data[25])<<8 | int(data[26])<<16) + 1
		h := (int(data[27]) | int(data[28])<<8 | int(data[29])<<16) + 1
		return Dimensions{Width: w, Height: h}, nil
	}
	return Dimensions{}, fmt.Errorf("unknown WebP chunk %q", data[12:16])
}
