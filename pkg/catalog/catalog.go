// Package catalog models the widget manifest: the static mapping from widget
// name to its candidate preview images and the index-aligned HTML fragments.
//
// The manifest is a JSON object whose key order is the palette order:
//
//	{
//	  "hero":   {"images": ["hero_1.webp", "hero_2.webp"], "html": ["hero_1.html", "hero_2.html"]},
//	  "footer": {"images": ["footer_1.webp"], "html": ["footer_1.html"]}
//	}
//
// A [Catalog] is immutable once loaded. It is read from a [Source] (local
// file, HTTP URL or MongoDB collection) and can be regenerated from the asset
// directories with [Generate].
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/wireframe/pkg/errors"
)

// Widget is one catalog entry.
type Widget struct {
	Name   string   `json:"-" bson:"name"`
	Images []string `json:"images" bson:"images"`
	HTML   []string `json:"html" bson:"html"`
}

// HasImage reports whether file is one of the widget's candidate images.
func (w Widget) HasImage(file string) bool {
	return slices.Contains(w.Images, file)
}

// HTMLFor returns the HTML fragment paired with image, or "" when the image
// is unknown or has no fragment at its index.
func (w Widget) HTMLFor(image string) string {
	i := slices.Index(w.Images, image)
	if i < 0 || i >= len(w.HTML) {
		return ""
	}
	return w.HTML[i]
}

// Catalog is an ordered, read-only set of widgets.
type Catalog struct {
	order   []string
	widgets map[string]Widget
}

// New builds a catalog from widgets in palette order. Later duplicates
// replace earlier ones but keep the first position.
func New(widgets ...Widget) *Catalog {
	c := &Catalog{widgets: make(map[string]Widget, len(widgets))}
	for _, w := range widgets {
		if _, ok := c.widgets[w.Name]; !ok {
			c.order = append(c.order, w.Name)
		}
		c.widgets[w.Name] = w
	}
	return c
}

// Empty returns a catalog with no widgets.
func Empty() *Catalog { return New() }

// Len returns the number of widgets.
func (c *Catalog) Len() int { return len(c.order) }

// Names returns widget names in palette order.
func (c *Catalog) Names() []string { return slices.Clone(c.order) }

// Widgets returns all widgets in palette order.
func (c *Catalog) Widgets() []Widget {
	out := make([]Widget, len(c.order))
	for i, name := range c.order {
		out[i] = c.widgets[name]
	}
	return out
}

// Get returns the widget with the given name.
func (c *Catalog) Get(name string) (Widget, bool) {
	w, ok := c.widgets[name]
	return w, ok
}

// Candidates returns the candidate images of a widget, or nil when the
// widget is unknown.
func (c *Catalog) Candidates(name string) []string {
	return c.widgets[name].Images
}

// Decode reads a JSON manifest, keeping the key order of the top-level
// object.
func Decode(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest must be a JSON object")
	}

	var widgets []Widget
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read widget name")
		}
		name, _ := tok.(string)

		var w Widget
		if err := dec.Decode(&w); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode widget %q", name)
		}
		w.Name = name
		widgets = append(widgets, w)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest end")
	}
	return New(widgets...), nil
}

// MarshalJSON writes the manifest object in palette order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		w := c.widgets[name]
		val, err := json.Marshal(struct {
			Images []string `json:"images"`
			HTML   []string `json:"html"`
		}{nonNil(w.Images), nonNil(w.HTML)})
		if err != nil {
			return nil, fmt.Errorf("encode widget %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode writes the manifest as indented JSON.
func (c *Catalog) Encode(w io.Writer) error {
	data, err := c.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
