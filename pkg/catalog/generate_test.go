package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	img := filepath.Join(root, DefaultImageDir)
	html := filepath.Join(root, DefaultHTMLDir)

	for _, f := range []string{"hero_10.webp", "hero_2.webp", "hero_1.PNG", "notes.txt"} {
		touch(t, filepath.Join(img, "hero", f))
	}
	for _, f := range []string{"hero_10.html", "hero_2.html", "hero_1.html"} {
		touch(t, filepath.Join(html, "hero", f))
	}
	touch(t, filepath.Join(img, "footer", "footer_1.webp"))
	touch(t, filepath.Join(html, "orphan", "orphan_1.html"))
	if err := os.MkdirAll(filepath.Join(img, "blank"), 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := Generate(img, html)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if got, want := c.Names(), []string{"blank", "footer", "hero"}; !slices.Equal(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}

	hero, _ := c.Get("hero")
	if want := []string{"hero_1.PNG", "hero_2.webp", "hero_10.webp"}; !slices.Equal(hero.Images, want) {
		t.Errorf("hero images = %v, want %v", hero.Images, want)
	}
	if want := []string{"hero_1.html", "hero_2.html", "hero_10.html"}; !slices.Equal(hero.HTML, want) {
		t.Errorf("hero html = %v, want %v", hero.HTML, want)
	}

	footer, _ := c.Get("footer")
	if footer.HTML == nil || len(footer.HTML) != 0 {
		t.Errorf("footer html = %#v, want empty non-nil", footer.HTML)
	}
	if _, ok := c.Get("orphan"); ok {
		t.Error("html-only category should not become a widget")
	}
}

func TestGenerateMissingDirs(t *testing.T) {
	c, err := Generate(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultManifest)
	c := New(Widget{Name: "hero", Images: []string{"hero_1.webp"}, HTML: []string{"hero_1.html"}})
	if err := WriteFile(c, path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	back, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got := back.Candidates("hero"); !slices.Equal(got, []string{"hero_1.webp"}) {
		t.Errorf("Candidates = %v", got)
	}
}

func TestNaturalSort(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{
			in:   []string{"file_10.ext", "file_2.ext", "file_1.ext"},
			want: []string{"file_1.ext", "file_2.ext", "file_10.ext"},
		},
		{
			in:   []string{"x", "10", "2"},
			want: []string{"2", "10", "x"},
		},
		{
			in:   []string{"img007", "img7", "img10"},
			want: []string{"img007", "img7", "img10"},
		},
		{
			in:   []string{"a", "a1", "a0"},
			want: []string{"a", "a0", "a1"},
		},
	}

	for _, tt := range tests {
		got := slices.Clone(tt.in)
		NaturalSort(got)
		if !slices.Equal(got, tt.want) {
			t.Errorf("NaturalSort(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNaturalSortCaseInsensitive(t *testing.T) {
	got := []string{"B_1", "a_2", "A_1"}
	NaturalSort(got)
	// a_2 and A_1 share the "a_" chunk; numbers decide. B sorts last.
	if want := []string{"A_1", "a_2", "B_1"}; !slices.Equal(got, want) {
		t.Errorf("NaturalSort = %v, want %v", got, want)
	}

	// Case-only differences fall back to byte order.
	got = []string{"hero_1.png", "Hero_1.png", "hero_01.png"}
	NaturalSort(got)
	if want := []string{"Hero_1.png", "hero_01.png", "hero_1.png"}; !slices.Equal(got, want) {
		t.Errorf("NaturalSort = %v, want %v", got, want)
	}
}
