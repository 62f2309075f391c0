package screen_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/stratapad/screen"
)

func strip() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 400, 920))
	for i, r := range screen.Regions {
		c := color.RGBA{R: uint8(50 * (i + 1)), G: 10, B: 200, A: 255}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.Set(x, y, c)
			}
		}
	}
	return img
}

func TestExtract(t *testing.T) {
	icons, err := screen.Extract(strip())
	require.NoError(t, err)
	for i, icon := range icons {
		require.NotNil(t, icon)
		assert.Equal(t, image.Rect(0, 0, screen.IconSize, screen.IconSize), icon.Bounds())
		r, _, _, a := icon.At(35, 35).RGBA()
		assert.Equal(t, uint32(50*(i+1))*0x101, r)
		assert.Equal(t, uint32(0xffff), a)
	}
}

func TestExtract_OffsetOrigin(t *testing.T) {
	src := strip()
	shifted := src.SubImage(src.Bounds()).(*image.RGBA)
	shifted.Rect = shifted.Rect.Add(image.Pt(1920, 0))
	icons, err := screen.Extract(shifted)
	require.NoError(t, err)
	r, _, _, _ := icons[3].At(0, 0).RGBA()
	assert.Equal(t, uint32(200)*0x101, r)
}

func TestExtract_TooSmall(t *testing.T) {
	_, err := screen.Extract(image.NewRGBA(image.Rect(0, 0, 320, 240)))
	assert.ErrorIs(t, err, screen.ErrTooSmall)
}

func TestSaveDebugAndLoad(t *testing.T) {
	dir := t.TempDir()
	capture := strip()
	icons, err := screen.Extract(capture)
	require.NoError(t, err)

	at := time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC)
	require.NoError(t, screen.SaveDebug(dir, capture, icons, at))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	img, err := screen.File(filepath.Join(dir, "20240301-123005-icon2.png")).Capture()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, screen.IconSize, screen.IconSize), img.Bounds())
}
