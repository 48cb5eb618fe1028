// Package compose renders quotes onto background images and exports them.
package compose

import (
	"context"
	"image"
	"image/color"

	"github.com/ankurkotwal/quotecard/qc/common"
)

const (
	// TextMargin is kept clear on both sides of the text
	TextMargin = 20
	// MinFontSize is the smallest size the fitter will shrink to
	MinFontSize = 10
	// FontSizeStep is how much the fitter shrinks per attempt
	FontSizeStep = 2
	// ExportMinFontSize and ExportMaxFontSize bound the export start size
	ExportMinFontSize = 20
	ExportMaxFontSize = 69
)

// BackgroundLoader fetches the image behind a reference
type BackgroundLoader interface {
	Load(ctx context.Context, ref common.ImageRef) (image.Image, error)
}

// CompositionResult is a rendered surface ready for export
type CompositionResult struct {
	Surface       Surface
	FinalFontSize int
	StartFontSize int
	Iterations    int

	exported bool
}

// Renderer composites quotes onto backgrounds
type Renderer struct {
	Backgrounds BackgroundLoader
	NewSurface  SurfaceFactory
}

// Render draws the background and the quote centered on a width x height
// surface. The export pass draws its own start size from rng, independent of
// config.InitialFontSize, then shrinks until the text fits the width.
func (r *Renderer) Render(ctx context.Context, quote common.Quote,
	config common.RenderConfig, width int, height int,
	rng common.Rand) (*CompositionResult, error) {

	bg, err := r.Backgrounds.Load(ctx, config.Background)
	if err != nil {
		return nil, &common.RenderError{Op: "load background", Err: err}
	}
	surface := r.NewSurface(width, height)
	surface.DrawImage(bg, 0, 0)

	style := TextStyle{
		Family: config.FontFamily,
		Size:   common.IntRange(rng, ExportMinFontSize, ExportMaxFontSize),
		Colour: color.White,
	}
	start := style.Size
	size, iterations, err := FitText(surface, quote.Content, style,
		float64(surface.Width()-2*TextMargin))
	if err != nil {
		return nil, &common.RenderError{Op: "measure text", Err: err}
	}
	style.Size = size

	if !quote.IsEmpty() {
		err = surface.DrawText(quote.Content, style,
			float64(surface.Width())/2, float64(surface.Height())/2)
		if err != nil {
			return nil, &common.RenderError{Op: "draw text", Err: err}
		}
	}
	return &CompositionResult{
		Surface:       surface,
		FinalFontSize: size,
		StartFontSize: start,
		Iterations:    iterations,
	}, nil
}

// FitText shrinks style.Size by FontSizeStep while text is wider than
// maxWidth and the size is above MinFontSize. Returns the final size and the
// number of shrink steps. Only width is fitted.
func FitText(m TextMeasurer, text string, style TextStyle,
	maxWidth float64) (int, int, error) {
	size := style.Size
	iterations := 0
	for {
		style.Size = size
		width, err := m.MeasureText(text, style)
		if err != nil {
			return size, iterations, err
		}
		if width <= maxWidth || size <= MinFontSize {
			break
		}
		size -= FontSizeStep
		iterations++
	}
	return size, iterations, nil
}
