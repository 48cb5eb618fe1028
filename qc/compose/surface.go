package compose

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/ankurkotwal/quotecard/qc/common"
)

// TextStyle describes how text is measured and drawn
type TextStyle struct {
	Family string
	Size   int
	Colour color.Color
}

// TextMeasurer measures the advance width of text in pixels
type TextMeasurer interface {
	MeasureText(text string, style TextStyle) (float64, error)
}

// Surface is a raster canvas quotes are composited on
type Surface interface {
	TextMeasurer
	Width() int
	Height() int
	DrawImage(img image.Image, x, y int)
	// DrawText draws text centred on x with its baseline at y
	DrawText(text string, style TextStyle, x, y float64) error
	Encode(w io.Writer) error
}

// SurfaceFactory creates an empty surface
type SurfaceFactory func(width, height int) Surface

// ggSurface draws with fogleman/gg and measures with freetype faces
type ggSurface struct {
	dc    *gg.Context
	fonts common.FontLoader
}

// NewSurface returns a gg backed surface. It is not safe for concurrent use.
func NewSurface(width, height int, fonts common.FontLoader) Surface {
	return &ggSurface{dc: gg.NewContext(width, height), fonts: fonts}
}

// NewSurfaceFactory binds config's fonts to new surfaces. Each surface gets
// its own face cache.
func NewSurfaceFactory(config *common.Config) SurfaceFactory {
	return func(width, height int) Surface {
		return NewSurface(width, height, common.NewFontFaceCache(config))
	}
}

func (s *ggSurface) Width() int  { return s.dc.Width() }
func (s *ggSurface) Height() int { return s.dc.Height() }

func (s *ggSurface) DrawImage(img image.Image, x, y int) {
	s.dc.DrawImage(img, x, y)
}

func (s *ggSurface) setFont(style TextStyle) error {
	face, err := s.fonts.LoadFont(style.Family, style.Size)
	if err != nil {
		return err
	}
	s.dc.SetFontFace(face)
	return nil
}

func (s *ggSurface) MeasureText(text string, style TextStyle) (float64, error) {
	if len(text) == 0 {
		return 0, nil
	}
	face, err := s.fonts.LoadFont(style.Family, style.Size)
	if err != nil {
		return 0, err
	}
	w, _ := common.MeasureString(face, text)
	return float64(w), nil
}

func (s *ggSurface) DrawText(text string, style TextStyle, x, y float64) error {
	if err := s.setFont(style); err != nil {
		return err
	}
	if style.Colour == nil {
		s.dc.SetColor(color.White)
	} else {
		s.dc.SetColor(style.Colour)
	}
	s.dc.DrawStringAnchored(text, x, y, 0.5, 0)
	return nil
}

func (s *ggSurface) Encode(w io.Writer) error {
	return s.dc.EncodePNG(w)
}
