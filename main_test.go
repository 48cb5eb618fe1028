package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFontsCommand(t *testing.T) {
	out, err := runCommand(t, "fonts", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("fonts failed: %v", err)
	}
	for _, want := range []string{"Roboto", "Sans-serif", "Go Mono Bold", "RENDERS WITH"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestFontsCommand_PlainWhenPiped(t *testing.T) {
	out, err := runCommand(t, "fonts", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no colour escapes in piped output:\n%q", out)
	}
}

func TestTableStyle(t *testing.T) {
	if got := tableStyle(true).Name; got != table.StyleColoredBright.Name {
		t.Errorf("Terminal style = %s", got)
	}
	if got := tableStyle(false).Name; got != table.StyleDefault.Name {
		t.Errorf("Plain style = %s", got)
	}

	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Error("Buffer reported as terminal")
	}
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("Regular file reported as terminal")
	}
}

func TestComposeCommand(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 500, 500))
	for y := 0; y < 500; y++ {
		for x := 0; x < 500; x++ {
			img.Set(x, y, color.Black)
		}
	}
	var background bytes.Buffer
	png.Encode(&background, img)

	mux := http.NewServeMux()
	mux.HandleFunc("/random-line", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":"Winter is coming","season_id":1,"episode_id":1,"speaker_id":7}`))
	})
	mux.HandleFunc("/bg/500", func(w http.ResponseWriter, r *http.Request) {
		w.Write(background.Bytes())
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	config := writeConfig(t, "QuoteURL: "+server.URL+"/random-line\nBackgroundURL: "+server.URL+"/bg/%d\n")
	outDir := t.TempDir()
	out, err := runCommand(t, "compose", "--config", config, "--out", outDir, "--seed", "7")
	if err != nil {
		t.Fatalf("compose failed: %v\n%s", err, out)
	}
	path := filepath.Join(outDir, "quote-image.png")
	if !strings.Contains(out, path) {
		t.Errorf("Output %q missing %s", out, path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("Saved file is not PNG: %v", err)
	}
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	episode := filepath.Join(dir, "S1", "E1 - Pilot.txt")
	os.MkdirAll(filepath.Dir(episode), 0755)
	os.WriteFile(episode, []byte("A: Hello.\n"), 0644)
	db := filepath.Join(t.TempDir(), "lines.sqlite")

	if _, err := runCommand(t, "import", "--config", filepath.Join(dir, "none.yaml"), "--db", db, dir); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("Database not created: %v", err)
	}

	if _, err := runCommand(t, "import", "--config", filepath.Join(dir, "none.yaml"), dir); err == nil {
		t.Error("Expected error without a database file")
	}
}

func TestBadConfig(t *testing.T) {
	config := writeConfig(t, "AppName: [ broken")
	if _, err := runCommand(t, "fonts", "--config", config); err == nil {
		t.Error("Expected error for invalid config")
	}
}
