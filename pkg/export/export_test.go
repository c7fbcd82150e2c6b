package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/wireframe/pkg/cache"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/httputil"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// fixture lays out an asset tree:
//
//	img/hero/hero_1.png      10x5 red
//	img/footer/footer_1.png  20x7 blue
//	html/hero/hero_1.html    "<section>hero</section>"
func fixture(t *testing.T) DirAssets {
	t.Helper()
	root := t.TempDir()
	a := DirAssets{ImageDir: filepath.Join(root, "img"), HTMLDir: filepath.Join(root, "html")}

	writePNG(t, filepath.Join(a.ImageDir, "hero", "hero_1.png"), 10, 5, red)
	writePNG(t, filepath.Join(a.ImageDir, "footer", "footer_1.png"), 20, 7, blue)
	writeFile(t, filepath.Join(a.HTMLDir, "hero", "hero_1.html"), "<section>hero</section>")
	return a
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.String())
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func unzip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		files[f.Name] = b
	}
	return files
}

func TestSanitizeProjectName(t *testing.T) {
	tests := []struct {
		in, fallback, want string
	}{
		{"My Project!", "", "My Project"},
		{"  spaced  ", "", "spaced"},
		{"a_b-c 1", "", "a_b-c 1"},
		{"../../etc/passwd", "", "etcpasswd"},
		{"Café", "", "Caf"},
		{"!!!", "", DefaultProjectName},
		{"", "", DefaultProjectName},
		{"", "landing page", "landing page"},
		{"", "???", DefaultProjectName},
		{"  x ! ", "", "x "},
	}
	for _, tt := range tests {
		if got := SanitizeProjectName(tt.in, tt.fallback); got != tt.want {
			t.Errorf("SanitizeProjectName(%q, %q) = %q, want %q", tt.in, tt.fallback, got, tt.want)
		}
	}
}

func TestExportBundle(t *testing.T) {
	e := New(fixture(t), Options{})
	arch, err := e.Export(context.Background(), Request{
		Project: "My Project!",
		Selections: []Selection{
			{Widget: "hero", Image: "hero_1.png", HTML: "hero_1.html"},
			{Widget: "footer", Image: "footer_1.png", HTML: "footer_1.html"}, // fragment missing on disk
		},
	})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if arch.Filename() != "My Project.zip" {
		t.Errorf("Filename = %q", arch.Filename())
	}

	files := unzip(t, arch.Data)
	if len(files) != 3 {
		t.Fatalf("zip has %d files, want 3: %v", len(files), files)
	}
	if got := string(files["My Project.html"]); got != "<section>hero</section>\n" {
		t.Errorf("html = %q", got)
	}
	if got := string(files["My Project_layout.txt"]); got != "[hero]\n[footer]" {
		t.Errorf("layout = %q", got)
	}

	img, err := png.Decode(bytes.NewReader(files["My Project.png"]))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 12 {
		t.Errorf("png size = %dx%d, want 20x12", b.Dx(), b.Dy())
	}
	checkPixel(t, img, 0, 0, red)
	checkPixel(t, img, 0, 5, blue)
	checkPixel(t, img, 19, 11, blue)
	if _, _, _, a := img.At(15, 2).RGBA(); a != 0 {
		t.Errorf("pixel right of the narrow image should be transparent, alpha=%d", a)
	}
}

func checkPixel(t *testing.T, img image.Image, x, y int, want color.NRGBA) {
	t.Helper()
	got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	if got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func TestExportPlaceholderEntries(t *testing.T) {
	e := New(fixture(t), Options{})
	b, err := e.Build(context.Background(), Request{
		Project: "p",
		Selections: []Selection{
			{Widget: "blank"},
			{Widget: "hero", Image: "hero_1.png", HTML: "hero_1.html"},
		},
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if got := string(b.Layout); got != "[blank]\n[hero]" {
		t.Errorf("layout = %q", got)
	}
	if got := string(b.HTML); got != "<section>hero</section>" {
		t.Errorf("html = %q", got)
	}
	img, _ := png.Decode(bytes.NewReader(b.PNG))
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Errorf("png size = %dx%d, want 10x5", b.Dx(), b.Dy())
	}
}

func TestExportNothingToExport(t *testing.T) {
	e := New(fixture(t), Options{})
	for _, sels := range [][]Selection{nil, {{Widget: "blank"}}} {
		_, err := e.Export(context.Background(), Request{Project: "p", Selections: sels})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Export(%v) error = %v, want INVALID_INPUT", sels, err)
		}
	}
}

func TestExportImageFailureAborts(t *testing.T) {
	a := fixture(t)
	writeFile(t, filepath.Join(a.ImageDir, "hero", "broken.png"), "not a png")

	tests := []struct {
		name string
		sel  Selection
	}{
		{"missing", Selection{Widget: "hero", Image: "nope.png"}},
		{"undecodable", Selection{Widget: "hero", Image: "broken.png"}},
		{"traversal", Selection{Widget: "..", Image: "hero_1.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(a, Options{})
			arch, err := e.Export(context.Background(), Request{
				Project:    "p",
				Selections: []Selection{{Widget: "footer", Image: "footer_1.png"}, tt.sel},
			})
			if !errors.Is(err, errors.ErrCodeExportAssetLoad) {
				t.Fatalf("error = %v, want EXPORT_ASSET_LOAD", err)
			}
			if arch != nil {
				t.Error("no archive should be produced")
			}
		})
	}
}

func TestExportCache(t *testing.T) {
	a := fixture(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	e := New(a, Options{Cache: fc})
	req := Request{Project: "cached", Selections: []Selection{{Widget: "hero", Image: "hero_1.png", HTML: "hero_1.html"}}}
	heroPath := filepath.Join(a.ImageDir, "hero", "hero_1.png")

	first, err := e.Export(context.Background(), req)
	if err != nil {
		t.Fatalf("first Export error: %v", err)
	}
	if first.Cached {
		t.Error("first export should not be cached")
	}

	second, err := e.Export(context.Background(), req)
	if err != nil {
		t.Fatalf("second Export error: %v", err)
	}
	if !second.Cached || !bytes.Equal(first.Data, second.Data) {
		t.Error("unchanged assets should be served from cache")
	}

	// An edited image changes the key.
	writePNG(t, heroPath, 10, 5, blue)
	edited, err := e.Export(context.Background(), req)
	if err != nil {
		t.Fatalf("export after edit error: %v", err)
	}
	if edited.Cached || bytes.Equal(first.Data, edited.Data) {
		t.Error("an edited image must not be served from cache")
	}

	// A deleted image fails even though bundles for it are cached.
	if err := os.Remove(heroPath); err != nil {
		t.Fatal(err)
	}
	arch, err := e.Export(context.Background(), req)
	if !errors.Is(err, errors.ErrCodeExportAssetLoad) {
		t.Fatalf("export after delete error = %v, want EXPORT_ASSET_LOAD", err)
	}
	if arch != nil {
		t.Error("no archive should be produced for a deleted image")
	}
}

func TestHTTPAssets(t *testing.T) {
	a := fixture(t)
	mux := http.NewServeMux()
	mux.Handle(ImagePrefix, http.StripPrefix(ImagePrefix, http.FileServer(http.Dir(a.ImageDir))))
	mux.Handle(HTMLPrefix, http.StripPrefix(HTMLPrefix, http.FileServer(http.Dir(a.HTMLDir))))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	remote := HTTPAssets{BaseURL: srv.URL + "/", Client: httputil.NewClient(nil).WithHTTPClient(srv.Client())}
	if !strings.HasPrefix(remote.String(), "http://") {
		t.Errorf("String = %q", remote.String())
	}

	b, err := New(remote, Options{}).Build(context.Background(), Request{
		Project: "remote",
		Selections: []Selection{
			{Widget: "hero", Image: "hero_1.png", HTML: "hero_1.html"},
			{Widget: "footer", Image: "footer_1.png", HTML: "footer_1.html"},
		},
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if got := string(b.HTML); got != "<section>hero</section>\n" {
		t.Errorf("html = %q", got)
	}

	_, err = New(remote, Options{}).Build(context.Background(), Request{
		Selections: []Selection{{Widget: "hero", Image: "gone.png"}},
	})
	if !errors.Is(err, errors.ErrCodeExportAssetLoad) {
		t.Errorf("error = %v, want EXPORT_ASSET_LOAD", err)
	}
}

func TestStitchEmptyInput(t *testing.T) {
	img := Stitch(nil)
	if b := img.Bounds(); b.Dx() != 0 || b.Dy() != 0 {
		t.Errorf("Stitch(nil) = %v", b)
	}
	if _, err := encodePNG(img); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("encodePNG(empty) error = %v", err)
	}
}
