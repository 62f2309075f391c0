// Package screen captures the display and crops the loadout icon strip.
package screen

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// IconSize is the edge length of one extracted icon.
const IconSize = 70

// Regions are the icon rectangles of the in-game loadout strip on a 1080p
// display, first to fourth.
var Regions = [4]image.Rectangle{
	image.Rect(60, 842, 60+IconSize, 842+IconSize),
	image.Rect(145, 842, 145+IconSize, 842+IconSize),
	image.Rect(230, 842, 230+IconSize, 842+IconSize),
	image.Rect(315, 842, 315+IconSize, 842+IconSize),
}

// ErrTooSmall is returned when a capture does not contain every region.
var ErrTooSmall = errors.New("capture does not contain the icon strip")

// Capturer grabs a full-screen image.
type Capturer interface {
	Capture() (image.Image, error)
}

// Display captures one monitor through kbinani/screenshot.
type Display struct {
	index int
}

// NewDisplay returns a capturer for the display at index.
func NewDisplay(index int) *Display {
	return &Display{index: index}
}

func (d *Display) Capture() (image.Image, error) {
	if n := screenshot.NumActiveDisplays(); d.index >= n {
		return nil, fmt.Errorf("display %d not active (%d available)", d.index, n)
	}
	img, err := screenshot.CaptureDisplay(d.index)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", d.index, err)
	}
	return img, nil
}

// File replays a saved screenshot as a capture.
type File string

func (f File) Capture() (image.Image, error) {
	return LoadImage(string(f))
}

// LoadImage decodes a PNG, JPEG, BMP or WebP file.
func LoadImage(path string) (image.Image, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SavePNG encodes img to path, creating its directory.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(fh, img); err != nil {
		fh.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return fh.Close()
}

// Extract copies the four icon regions out of a capture. Regions are relative
// to the capture's origin.
func Extract(img image.Image) ([4]image.Image, error) {
	var icons [4]image.Image
	b := img.Bounds()
	for i, r := range Regions {
		r = r.Add(b.Min)
		if !r.In(b) {
			return icons, fmt.Errorf("%w: %v not in %v", ErrTooSmall, r, b)
		}
		dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
		icons[i] = dst
	}
	return icons, nil
}

// SaveDebug writes the capture and its icons into dir, prefixed with a
// timestamp.
func SaveDebug(dir string, capture image.Image, icons [4]image.Image, at time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	stamp := at.Format("20060102-150405")
	if err := SavePNG(filepath.Join(dir, stamp+"-screen.png"), capture); err != nil {
		return err
	}
	for i, icon := range icons {
		if icon == nil {
			continue
		}
		if err := SavePNG(filepath.Join(dir, fmt.Sprintf("%s-icon%d.png", stamp, i+1)), icon); err != nil {
			return err
		}
	}
	return nil
}
