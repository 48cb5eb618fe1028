package background

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ankurkotwal/quotecard/qc/common"
)

func createDummyImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 120, A: 255})
		}
	}
	return img
}

func TestResolveBackground(t *testing.T) {
	config := common.DefaultConfig()
	provider := NewProvider(config)

	ref := provider.ResolveBackground()
	if ref.URL != "https://picsum.photos/500" {
		t.Errorf("URL = %s", ref.URL)
	}
	if ref.Width != 500 || ref.Height != 500 {
		t.Errorf("Size = %dx%d", ref.Width, ref.Height)
	}

	provider.Size = common.Dimensions2d{W: 800, H: 600}
	if ref := provider.ResolveBackground(); ref.URL != "https://picsum.photos/800/600" {
		t.Errorf("URL = %s", ref.URL)
	}

	provider.URLTemplate = "https://example.com/fixed.jpg"
	if ref := provider.ResolveBackground(); ref.URL != "https://example.com/fixed.jpg" {
		t.Errorf("URL = %s", ref.URL)
	}
}

func TestLoad(t *testing.T) {
	var pngBytes, jpgBytes bytes.Buffer
	if err := png.Encode(&pngBytes, createDummyImage(100, 50)); err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(&jpgBytes, createDummyImage(500, 500), &jpeg.Options{Quality: 80}); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/small.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes.Bytes())
	})
	mux.HandleFunc("/exact.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write(jpgBytes.Bytes())
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	loader := NewLoader()
	tests := []struct {
		name string
		path string
	}{
		{"png scaled to cover", "/small.png"},
		{"jpeg at size", "/exact.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := common.ImageRef{URL: server.URL + tt.path, Width: 500, Height: 500}
			img, err := loader.Load(context.Background(), ref)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if size := img.Bounds().Size(); size.X != 500 || size.Y != 500 {
				t.Errorf("Size = %v", size)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	png.Encode(f, createDummyImage(20, 20))
	f.Close()

	img, err := NewLoader().Load(context.Background(), common.ImageRef{URL: "file://" + path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if size := img.Bounds().Size(); size.X != 20 {
		t.Errorf("Expected unscaled image, got %v", size)
	}
}

func TestLoad_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/garbage" {
			w.Write([]byte("not an image"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	loader := NewLoader()
	for _, path := range []string{"/missing", "/garbage"} {
		ref := common.ImageRef{URL: server.URL + path, Width: 500, Height: 500}
		if _, err := loader.Load(context.Background(), ref); err == nil {
			t.Errorf("Expected error for %s", path)
		}
	}
}
