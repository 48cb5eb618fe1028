package compose

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ankurkotwal/quotecard/qc/common"
)

// QuoteFetcher retrieves one random quote
type QuoteFetcher interface {
	FetchQuote(ctx context.Context) (common.Quote, error)
}

// BackgroundResolver hands out background image references
type BackgroundResolver interface {
	ResolveBackground() common.ImageRef
}

// Deps are the collaborators a session composes with. They must be safe for
// concurrent use since sessions share them.
type Deps struct {
	Config      *common.Config
	Quotes      QuoteFetcher
	Backgrounds BackgroundResolver
	Renderer    *Renderer
}

// Session is one composition, from quote fetch to exported image. Sessions
// own their quote, parameters, random source and surface.
type Session struct {
	ID  string
	Log *common.Logger

	Quote    common.Quote
	Params   common.RenderConfig
	FetchErr error

	deps     Deps
	rng      common.Rand
	prepared bool
}

// NewSession creates a session. A nil rng seeds one from the clock.
func NewSession(deps Deps, rng common.Rand) *Session {
	if rng == nil {
		rng = common.NewTimeRand()
	}
	if deps.Config == nil {
		deps.Config = common.DefaultConfig()
	}
	id := uuid.NewString()
	return &Session{
		ID:   id,
		Log:  common.NewSessionLog(id),
		deps: deps,
		rng:  rng,
	}
}

// Prepare fetches the quote while the background is resolved, then selects
// the render parameters. A failed fetch leaves an empty quote in place and
// is recorded in FetchErr.
func (s *Session) Prepare(ctx context.Context) {
	var quote common.Quote
	var fetchErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		quote, fetchErr = s.deps.Quotes.FetchQuote(ctx)
	}()
	background := s.deps.Backgrounds.ResolveBackground()
	wg.Wait()

	if fetchErr != nil {
		s.Log.Err("%v", fetchErr)
		quote = common.Quote{}
	} else {
		s.Log.Msg("Quote S%dE%d speaker %d: %q", quote.SeasonID, quote.EpisodeID,
			quote.SpeakerID, quote.Content)
	}
	s.Quote = quote
	s.FetchErr = fetchErr
	s.Params = SelectParams(quote, background, s.rng)
	s.prepared = true
	s.Log.Msg("Font %q size %d background %s", s.Params.FontFamily,
		s.Params.InitialFontSize, s.Params.Background.URL)
}

// Render draws the prepared quote. Prepare runs first if it hasn't.
func (s *Session) Render(ctx context.Context) (*CompositionResult, error) {
	if !s.prepared {
		s.Prepare(ctx)
	}
	if s.deps.Renderer == nil {
		return nil, &common.RenderError{Op: "acquire surface", Err: errors.New("no renderer")}
	}
	size := s.deps.Config.SurfaceSize
	result, err := s.deps.Renderer.Render(ctx, s.Quote, s.Params, size.W, size.H, s.rng)
	if err != nil {
		s.Log.Err("%v", err)
		return nil, err
	}
	s.Log.Msg("Rendered at %d (start %d, %d steps)", result.FinalFontSize,
		result.StartFontSize, result.Iterations)
	return result, nil
}

// Compose renders the session and exports the image to sink
func (s *Session) Compose(ctx context.Context, sink Sink) (ExportedFile, error) {
	result, err := s.Render(ctx)
	if err != nil {
		return ExportedFile{}, err
	}
	file, err := Export(result, sink)
	if err != nil {
		s.Log.Err("%v", err)
		return file, err
	}
	s.Log.Msg("Exported %s (%d bytes)", file.Name, len(file.Data))
	return file, nil
}
