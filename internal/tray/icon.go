package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

// IconSize is the edge length of the generated tray icon.
const IconSize = 32

var (
	iconFill   = color.NRGBA{R: 0xF5, G: 0xC2, B: 0x11, A: 0xFF}
	iconBorder = color.NRGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}
)

// Icon renders the tray icon: PNG data wrapped in an ICO container on
// Windows, plain PNG elsewhere.
func Icon() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, iconImage()); err != nil {
		return nil, err
	}
	if runtime.GOOS == "windows" {
		return wrapICO(buf.Bytes(), IconSize), nil
	}
	return buf.Bytes(), nil
}

// iconImage draws a chevron pointing up on a bordered square.
func iconImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, IconSize, IconSize))
	for y := range IconSize {
		for x := range IconSize {
			switch {
			case x < 2 || y < 2 || x >= IconSize-2 || y >= IconSize-2:
				img.SetNRGBA(x, y, iconBorder)
			case onChevron(x, y):
				img.SetNRGBA(x, y, iconBorder)
			default:
				img.SetNRGBA(x, y, iconFill)
			}
		}
	}
	return img
}

func onChevron(x, y int) bool {
	const tip, thickness = 8, 4
	dx := x - IconSize/2
	if dx < 0 {
		dx = -dx
	}
	d := y - tip - dx
	return d >= 0 && d < thickness && dx < 10
}

// wrapICO builds a single-image ICO file around PNG data.
func wrapICO(pngData []byte, size int) []byte {
	const headerLen, entryLen = 6, 16
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		Reserved, Type, Count uint16
	}{0, 1, 1})
	dim := uint8(size)
	if size >= 256 {
		dim = 0
	}
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount               uint16
		Size, Offset                   uint32
	}{dim, dim, 0, 0, 1, 32, uint32(len(pngData)), headerLen + entryLen})
	buf.Write(pngData)
	return buf.Bytes()
}
