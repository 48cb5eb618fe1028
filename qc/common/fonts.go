package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

var fontCatalog = []string{
	"Roboto", "Open Sans", "Lato", "Montserrat", "Merriweather", "Poppins",
	"Arial", "Helvetica", "Georgia", "Times New Roman", "Courier New", "Verdana",
	"Comic Sans MS", "Impact", "Cursive", "Fantasy", "Monospace", "Serif", "Sans-serif",
}

// FontCatalog returns the font families quotes can be rendered in
func FontCatalog() []string {
	catalog := make([]string, len(fontCatalog))
	copy(catalog, fontCatalog)
	return catalog
}

// IsCatalogFont reports whether family is in the font catalog
func IsCatalogFont(family string) bool {
	for _, name := range fontCatalog {
		if name == family {
			return true
		}
	}
	return false
}

// Embedded fallbacks by generic family. All are bold except small caps.
var (
	embeddedSans    = embeddedFont{"Go Bold", gobold.TTF}
	embeddedMono    = embeddedFont{"Go Mono Bold", gomonobold.TTF}
	embeddedCursive = embeddedFont{"Go Bold Italic", gobolditalic.TTF}
	embeddedFantasy = embeddedFont{"Go Smallcaps", gosmallcaps.TTF}
)

type embeddedFont struct {
	name string
	ttf  []byte
}

var embeddedByFamily = map[string]embeddedFont{
	"Courier New":   embeddedMono,
	"Monospace":     embeddedMono,
	"Comic Sans MS": embeddedCursive,
	"Cursive":       embeddedCursive,
	"Impact":        embeddedFantasy,
	"Fantasy":       embeddedFantasy,
}

func embeddedFor(family string) embeddedFont {
	if f, found := embeddedByFamily[family]; found {
		return f
	}
	return embeddedSans
}

// FontSource names the file (or embedded font) a family resolves to
func FontSource(config *Config, family string) string {
	if path := fontPath(config, family); len(path) > 0 {
		return path
	}
	return embeddedFor(family).name
}

// fontPath returns the configured font file for family if it exists
func fontPath(config *Config, family string) string {
	if config == nil || len(config.FontsDir) == 0 {
		return ""
	}
	file, found := config.FontFiles[family]
	if !found {
		return ""
	}
	path := filepath.Join(config.FontsDir, file)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

var fontCache sync.Map

// loadFont parses the font for family. Parsed fonts are immutable and shared
// across goroutines.
func loadFont(config *Config, family string) (*truetype.Font, error) {
	path := fontPath(config, family)
	key := path
	if len(key) == 0 {
		key = embeddedFor(family).name
	}
	if v, found := fontCache.Load(key); found {
		return v.(*truetype.Font), nil
	}

	var fontBytes []byte
	if len(path) > 0 {
		var err error
		if fontBytes, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
	} else {
		fontBytes = embeddedFor(family).ttf
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", key, err)
	}
	fontCache.Store(key, parsed)
	return parsed, nil
}

// FontLoader loads a font face for a family at a pixel size
type FontLoader interface {
	LoadFont(family string, size int) (font.Face, error)
}

type faceKey struct {
	family string
	size   int
}

// FontFaceCache caches faces by family and size. font.Face is not safe for
// concurrent use so each surface owns its own cache.
type FontFaceCache struct {
	config *Config
	faces  map[faceKey]font.Face
}

// NewFontFaceCache creates an empty face cache resolving fonts via config
func NewFontFaceCache(config *Config) *FontFaceCache {
	return &FontFaceCache{config: config, faces: make(map[faceKey]font.Face)}
}

// LoadFont returns the face for family at size, loading it if needed
func (cache *FontFaceCache) LoadFont(family string, size int) (font.Face, error) {
	key := faceKey{family, size}
	if face, found := cache.faces[key]; found {
		return face, nil
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %d", size)
	}
	parsed, err := loadFont(cache.config, family)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(parsed, &truetype.Options{
		Size: float64(size),
	})
	cache.faces[key] = face
	return face, nil
}

// MeasureString returns the advance width and line height of text in pixels
func MeasureString(fontFace font.Face, text string) (int, int) {
	calcX := font.MeasureString(fontFace, text).Round()
	calcY := fontFace.Metrics().Height.Round()
	return calcX, calcY
}
