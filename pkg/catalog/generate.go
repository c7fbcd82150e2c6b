package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/wireframe/pkg/errors"
)

// Default asset directory names, relative to the project root.
const (
	DefaultImageDir = "img_wireframes"
	DefaultHTMLDir  = "kadence_wireframes"
	DefaultManifest = "manifest.json"
)

var (
	imageExts = []string{".webp", ".png"}
	htmlExts  = []string{".html"}
)

// Generate scans the asset directories and builds a catalog:
//   - every subdirectory of imageDir is a widget, in sorted order
//   - its .webp/.png files are the candidate images
//   - the .html files of the same-named subdirectory of htmlDir are its
//     fragments; HTML directories without an image directory are ignored
//
// File lists are naturally sorted so "hero_2.webp" precedes "hero_10.webp".
// A missing directory contributes nothing.
func Generate(imageDir, htmlDir string) (*Catalog, error) {
	categories, err := subdirs(imageDir)
	if err != nil {
		return nil, err
	}

	widgets := make([]Widget, 0, len(categories))
	for _, name := range categories {
		images, err := listFiles(filepath.Join(imageDir, name), imageExts)
		if err != nil {
			return nil, err
		}
		html, err := listFiles(filepath.Join(htmlDir, name), htmlExts)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, Widget{Name: name, Images: images, HTML: html})
	}
	return New(widgets...), nil
}

// WriteFile writes c as indented JSON to path.
func WriteFile(c *Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return f.Close()
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", dir)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out, nil
}

func listFiles(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", dir)
	}
	out := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(exts, ext) {
			out = append(out, e.Name())
		}
	}
	NaturalSort(out)
	return out, nil
}
