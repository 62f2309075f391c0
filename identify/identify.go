// Package identify matches captured loadout icons against reference images.
package identify

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Alia5/stratapad/screen"
)

const (
	// PixelTolerance is the mean per-channel difference (0..1) above which a
	// pixel counts as different.
	PixelTolerance = 0.05
	// DiffTolerance is the fraction of different pixels below which two
	// images match.
	DiffTolerance = 0.01
)

// PlaceholderPrefix marks files that are never loaded as references.
const PlaceholderPrefix = "_"

var ordinals = [4]string{"first", "second", "third", "fourth"}

var imageExts = []string{".png", ".bmp", ".jpg", ".jpeg", ".webp"}

// Similar reports whether a and b are perceptually the same icon. Images of
// different size never match, and neither do empty images.
func Similar(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	total := ab.Dx() * ab.Dy()
	if total == 0 {
		return false
	}
	different := 0
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			p := color.NRGBAModel.Convert(a.At(ab.Min.X+x, ab.Min.Y+y)).(color.NRGBA)
			q := color.NRGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y)).(color.NRGBA)
			if pixelDiff(p, q) > PixelTolerance {
				different++
			}
		}
	}
	return float64(different)/float64(total) < DiffTolerance
}

func pixelDiff(p, q color.NRGBA) float64 {
	return (absDiff(p.R, q.R) + absDiff(p.G, q.G) + absDiff(p.B, q.B)) / 3
}

func absDiff(a, b uint8) float64 {
	if a > b {
		return float64(a-b) / 255
	}
	return float64(b-a) / 255
}

// Reference is one named icon.
type Reference struct {
	Name  string
	Image image.Image
}

// Library holds reference icons in load order.
type Library struct {
	dir  string
	refs []Reference
}

// LoadLibrary reads every image in dir, sorted by file name. The file stem is
// the stratagem name; placeholder files and undecodable images are skipped.
// A missing dir is created and yields an empty library.
func LoadLibrary(dir string, logger *slog.Logger) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create icon dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read icon dir: %w", err)
	}
	lib := &Library{dir: dir}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if !slices.Contains(imageExts, ext) || strings.HasPrefix(stem, PlaceholderPrefix) {
			continue
		}
		img, err := screen.LoadImage(filepath.Join(dir, e.Name()))
		if err != nil {
			logger.Warn("Skip icon", "file", e.Name(), "error", err)
			continue
		}
		lib.refs = append(lib.refs, Reference{Name: stem, Image: img})
	}
	logger.Info("Loaded icon library", "dir", dir, "icons", len(lib.refs))
	return lib, nil
}

// NewLibrary builds a library from in-memory references.
func NewLibrary(dir string, refs ...Reference) *Library {
	return &Library{dir: dir, refs: slices.Clone(refs)}
}

// Dir returns the directory placeholders are written to.
func (l *Library) Dir() string { return l.dir }

// Len returns the number of references.
func (l *Library) Len() int { return len(l.refs) }

// Match returns the first reference similar to icon.
func (l *Library) Match(icon image.Image) (string, bool) {
	for _, r := range l.refs {
		if Similar(icon, r.Image) {
			return r.Name, true
		}
	}
	return "", false
}

// Placeholder is an unmatched icon saved for manual labelling.
type Placeholder struct {
	// Position is the zero-based screen position of the icon.
	Position int
	Name     string
	Path     string
}

// Identifier names the four loadout icons.
type Identifier struct {
	lib    *Library
	logger *slog.Logger
}

// NewIdentifier returns an identifier backed by lib.
func NewIdentifier(lib *Library, logger *slog.Logger) *Identifier {
	return &Identifier{lib: lib, logger: logger}
}

// PlaceholderName is the name reported for an unmatched icon at position.
func PlaceholderName(position int) string {
	return fmt.Sprintf("%s%sUnknownStratagem", PlaceholderPrefix, ordinals[position])
}

// Identify names each icon. Unmatched icons are written to the library dir
// under their placeholder name and reported by that name; they are not added
// to the library.
func (id *Identifier) Identify(icons [4]image.Image) ([4]string, []Placeholder, error) {
	var names [4]string
	var placeholders []Placeholder
	for i, icon := range icons {
		if icon != nil {
			if name, ok := id.lib.Match(icon); ok {
				names[i] = name
				continue
			}
		}
		ph := Placeholder{Position: i, Name: PlaceholderName(i)}
		names[i] = ph.Name
		if icon != nil {
			ph.Path = filepath.Join(id.lib.dir, ph.Name+".png")
			if err := screen.SavePNG(ph.Path, icon); err != nil {
				return names, placeholders, fmt.Errorf("save placeholder: %w", err)
			}
		}
		id.logger.Info("Unknown stratagem icon", "position", i+1, "saved", ph.Path)
		placeholders = append(placeholders, ph)
	}
	return names, placeholders, nil
}
