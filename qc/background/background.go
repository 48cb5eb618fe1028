// Package background resolves and loads the images quotes are drawn on.
package background

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pixiv/go-libjpeg/jpeg"

	"github.com/ankurkotwal/quotecard/qc/common"
)

// Provider hands out references to random background images
type Provider struct {
	URLTemplate string
	Size        common.Dimensions2d
}

// NewProvider returns a provider for the configured image service
func NewProvider(config *common.Config) *Provider {
	return &Provider{URLTemplate: config.BackgroundURL, Size: config.SurfaceSize}
}

// ResolveBackground returns a fresh reference. No image bytes are fetched;
// the service picks a new random image each time the URL is loaded.
func (p *Provider) ResolveBackground() common.ImageRef {
	url := p.URLTemplate
	if strings.Contains(url, "%d") {
		if p.Size.W == p.Size.H {
			url = fmt.Sprintf(url, p.Size.W)
		} else {
			url = strings.Replace(url, "%d", fmt.Sprintf("%d/%d", p.Size.W, p.Size.H), 1)
		}
	}
	return common.ImageRef{URL: url, Width: p.Size.W, Height: p.Size.H}
}

// Largest image accepted from the background service
const maxImageBytes = 32 << 20

// Loader fetches and decodes the image behind a reference
type Loader struct {
	HTTPClient *http.Client
}

// NewLoader returns a loader with a bounded request time
func NewLoader() *Loader {
	return &Loader{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

// Load fetches ref and scales it to cover ref's dimensions
func (l *Loader) Load(ctx context.Context, ref common.ImageRef) (image.Image, error) {
	data, err := l.fetch(ctx, ref.URL)
	if err != nil {
		return nil, err
	}
	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref.URL, err)
	}
	if ref.Width > 0 && ref.Height > 0 {
		size := img.Bounds().Size()
		if size.X != ref.Width || size.Y != ref.Height {
			img = imaging.Fill(img, ref.Width, ref.Height, imaging.Center, imaging.Lanczos)
		}
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if path, found := strings.CutPrefix(url, "file://"); found {
		return os.ReadFile(path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// decode uses libjpeg for JPEG data and the registered decoders otherwise
func decode(data []byte) (image.Image, error) {
	if len(data) > 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return jpeg.Decode(bytes.NewReader(data), &jpeg.DecoderOptions{})
	}
	return imaging.Decode(bytes.NewReader(data))
}
