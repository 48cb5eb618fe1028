package compose

import (
	"unicode/utf8"

	"github.com/ankurkotwal/quotecard/qc/common"
)

const (
	// PreviewMinFontSize and PreviewMaxFontSize bound the random base size
	PreviewMinFontSize = 20
	PreviewMaxFontSize = 49
	// LengthBudget divided by the quote length caps the initial size
	LengthBudget = 500
)

// SelectFont draws a font family uniformly from the catalog
func SelectFont(rng common.Rand) string {
	catalog := common.FontCatalog()
	return catalog[rng.Intn(len(catalog))]
}

// InitialFontSize caps base by the quote length. Empty quotes keep base and
// very long quotes stop at MinFontSize.
func InitialFontSize(content string, base int) int {
	length := utf8.RuneCountInString(content)
	if length == 0 {
		return base
	}
	size := base
	if capped := LengthBudget / length; capped < size {
		size = capped
	}
	if size < MinFontSize {
		size = MinFontSize
	}
	return size
}

// SelectParams chooses the font and initial size for quote. It must run after
// the quote is known since the size depends on its length.
func SelectParams(quote common.Quote, background common.ImageRef, rng common.Rand) common.RenderConfig {
	family := SelectFont(rng)
	base := common.IntRange(rng, PreviewMinFontSize, PreviewMaxFontSize)
	return common.RenderConfig{
		FontFamily:      family,
		InitialFontSize: InitialFontSize(quote.Content, base),
		Background:      background,
	}
}
