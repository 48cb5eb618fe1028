package compose

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"unicode/utf8"

	"github.com/ankurkotwal/quotecard/qc/common"
)

// fakeSurface measures every rune as half the font size wide
type fakeSurface struct {
	width, height int
	measurements  int
	draws         []textDraw
	images        int
	encodeErr     error
	measureErr    error
}

type textDraw struct {
	text  string
	style TextStyle
	x, y  float64
}

func newFakeSurface(width, height int) *fakeSurface {
	return &fakeSurface{width: width, height: height}
}

func (s *fakeSurface) Width() int  { return s.width }
func (s *fakeSurface) Height() int { return s.height }

func (s *fakeSurface) DrawImage(img image.Image, x, y int) { s.images++ }

func (s *fakeSurface) MeasureText(text string, style TextStyle) (float64, error) {
	if s.measureErr != nil {
		return 0, s.measureErr
	}
	s.measurements++
	return float64(utf8.RuneCountInString(text)) * float64(style.Size) / 2, nil
}

func (s *fakeSurface) DrawText(text string, style TextStyle, x, y float64) error {
	s.draws = append(s.draws, textDraw{text: text, style: style, x: x, y: y})
	return nil
}

func (s *fakeSurface) Encode(w io.Writer) error {
	if s.encodeErr != nil {
		return s.encodeErr
	}
	_, err := w.Write([]byte("fake"))
	return err
}

// solidLoader returns a plain image of the requested size
type solidLoader struct {
	err error
}

func (l solidLoader) Load(ctx context.Context, ref common.ImageRef) (image.Image, error) {
	if l.err != nil {
		return nil, l.err
	}
	w, h := ref.Width, ref.Height
	if w == 0 || h == 0 {
		w, h = 500, 500
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 30, B: 60, A: 255})
		}
	}
	return img, nil
}

var errLoad = errors.New("background unavailable")

type stubQuotes struct {
	quote common.Quote
	err   error
}

func (s stubQuotes) FetchQuote(ctx context.Context) (common.Quote, error) {
	return s.quote, s.err
}

type stubBackgrounds struct{}

func (stubBackgrounds) ResolveBackground() common.ImageRef {
	return common.ImageRef{URL: "test://background", Width: 500, Height: 500}
}
