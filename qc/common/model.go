package common

// Quote is a line of dialogue with the identifiers of where it was spoken
type Quote struct {
	Content   string `json:"content"`
	SeasonID  int    `json:"season_id"`
	EpisodeID int    `json:"episode_id"`
	SpeakerID int    `json:"speaker_id"`
}

// IsEmpty reports whether the quote has no text to render
func (q Quote) IsEmpty() bool {
	return len(q.Content) == 0
}

// ImageRef is a handle to a background image. Resolving it does not fetch
// the image bytes.
type ImageRef struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RenderConfig holds the per-session rendering choices
type RenderConfig struct {
	FontFamily      string   `json:"font_family"`
	InitialFontSize int      `json:"initial_font_size"`
	Background      ImageRef `json:"background"`
}

const (
	// ExportFilename is the name given to every composed image
	ExportFilename = "quote-image.png"
	// ExportContentType is the media type of exported images
	ExportContentType = "image/png"
)
