// Package export packages a composition into a downloadable bundle.
//
// A bundle is a zip archive holding three files named after the sanitized
// project name:
//
//	<name>.html        HTML fragments of the previewed entries, newline-joined
//	<name>.png         their preview images stacked top to bottom
//	<name>_layout.txt  one "[widget]" line per layout entry
//
// All assets are loaded concurrently. A missing or unreadable HTML fragment
// contributes an empty string; any image that fails to load aborts the
// export with EXPORT_ASSET_LOAD and no partial bundle is produced.
package export

import (
	"bytes"
	"context"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wireframe/pkg/cache"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/observability"
)

// Selection is one layout entry as exported. Image is empty for entries
// rendered as a placeholder; HTML is empty when the image has no fragment.
type Selection struct {
	Widget string `json:"widget"`
	Image  string `json:"image,omitempty"`
	HTML   string `json:"html,omitempty"`
}

// Request describes one export.
type Request struct {
	Project    string
	Selections []Selection
}

// Archive is a packaged bundle.
type Archive struct {
	Name   string
	Data   []byte
	Cached bool
}

// Filename returns the download file name.
func (a *Archive) Filename() string { return a.Name + ".zip" }

// Options configures an Exporter.
type Options struct {
	// Cache stores finished archives; nil disables caching.
	Cache cache.Cache
	// TTL of cached archives; defaults to cache.DefaultTTL.
	TTL time.Duration
	// DefaultName replaces project names that sanitize to nothing.
	DefaultName string
	Logger      *log.Logger
}

// Exporter builds bundles from assets.
type Exporter struct {
	assets Assets
	cache  cache.Cache
	ttl    time.Duration
	name   string
	logger *log.Logger
}

// New creates an Exporter reading from assets.
func New(assets Assets, opts Options) *Exporter {
	e := &Exporter{
		assets: assets,
		cache:  opts.Cache,
		ttl:    opts.TTL,
		name:   opts.DefaultName,
		logger: opts.Logger,
	}
	if e.cache == nil {
		e.cache = cache.NewNullCache()
	}
	if e.ttl <= 0 {
		e.ttl = cache.DefaultTTL
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Export builds the bundle for req and packages it as a zip archive.
// Assets are always loaded first, so a missing image fails the export even
// when an earlier bundle is cached; the cache only skips decoding, stitching
// and zipping of byte-identical inputs.
func (e *Exporter) Export(ctx context.Context, req Request) (arch *Archive, err error) {
	name := SanitizeProjectName(req.Project, e.name)
	previewed := countPreviewed(req.Selections)

	hooks := observability.Export()
	hooks.OnExportStart(ctx, name, previewed)
	start := time.Now()
	defer func() {
		size := 0
		if arch != nil {
			size = len(arch.Data)
		}
		hooks.OnExportComplete(ctx, name, size, time.Since(start), err)
	}()

	if previewed == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to export: no entry has a preview")
	}

	src, err := e.load(ctx, req.Selections)
	if err != nil {
		return nil, err
	}

	key := cache.BundleKey(name, req.Selections, e.assets.String(), src.digests())
	if data, ok := e.cached(ctx, key); ok {
		e.logger.Debug("export served from cache", "project", name)
		return &Archive{Name: name, Data: data, Cached: true}, nil
	}

	b, err := e.assemble(name, req.Selections, src)
	if err != nil {
		return nil, err
	}
	data, err := b.Zip()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write zip")
	}

	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeBundle, len(data))
	}

	e.logger.Info("exported", "project", name, "entries", len(req.Selections), "bytes", len(data))
	return &Archive{Name: name, Data: data}, nil
}

// Build assembles the bundle for req without packaging or caching it.
func (e *Exporter) Build(ctx context.Context, req Request) (*Bundle, error) {
	if countPreviewed(req.Selections) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to export: no entry has a preview")
	}
	src, err := e.load(ctx, req.Selections)
	if err != nil {
		return nil, err
	}
	return e.assemble(SanitizeProjectName(req.Project, e.name), req.Selections, src)
}

func (e *Exporter) cached(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeBundle)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyTypeBundle)
	return data, true
}

// sources holds the raw assets of the previewed selections, in order.
type sources struct {
	images    [][]byte
	fragments [][]byte
}

// digests fingerprints every loaded asset for the bundle cache key.
func (s *sources) digests() []string {
	out := make([]string, 0, 2*len(s.images))
	for i := range s.images {
		out = append(out, cache.Hash(s.images[i]), cache.Hash(s.fragments[i]))
	}
	return out
}

// load reads the image and HTML fragment of every previewed selection
// concurrently and fails on the first image that cannot be read.
func (e *Exporter) load(ctx context.Context, sels []Selection) (*sources, error) {
	previewed := previewedOnly(sels)
	src := &sources{
		images:    make([][]byte, len(previewed)),
		fragments: make([][]byte, len(previewed)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range previewed {
		g.Go(func() error {
			data, err := e.readImage(gctx, s)
			if err != nil {
				return err
			}
			src.images[i] = data
			return nil
		})
		g.Go(func() error {
			src.fragments[i] = e.loadHTML(gctx, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return src, nil
}

// assemble decodes and stitches the loaded images into a bundle.
func (e *Exporter) assemble(name string, sels []Selection, src *sources) (*Bundle, error) {
	widgets := make([]string, len(sels))
	for i, s := range sels {
		widgets[i] = s.Widget
	}

	previewed := previewedOnly(sels)
	images := make([]image.Image, len(previewed))
	for i, s := range previewed {
		img, err := decodeImage(bytes.NewReader(src.images[i]), s.Image)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportAssetLoad, err, "decode image %s/%s", s.Widget, s.Image)
		}
		images[i] = img
	}

	png, err := encodePNG(Stitch(images))
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Name:   name,
		HTML:   bytes.Join(src.fragments, []byte("\n")),
		PNG:    png,
		Layout: layoutText(widgets),
	}, nil
}

func (e *Exporter) readImage(ctx context.Context, s Selection) ([]byte, error) {
	rc, err := e.assets.Image(ctx, s.Widget, s.Image)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportAssetLoad, err, "load image %s/%s", s.Widget, s.Image)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportAssetLoad, err, "read image %s/%s", s.Widget, s.Image)
	}
	return data, nil
}

// loadHTML never fails: a fragment that cannot be loaded contributes nothing.
func (e *Exporter) loadHTML(ctx context.Context, s Selection) []byte {
	if s.HTML == "" {
		return nil
	}
	data, err := e.assets.HTML(ctx, s.Widget, s.HTML)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeNotFound) {
			e.logger.Warn("html fragment unavailable", "widget", s.Widget, "file", s.HTML, "err", err)
		}
		return nil
	}
	return data
}

func previewedOnly(sels []Selection) []Selection {
	var out []Selection
	for _, s := range sels {
		if s.Image != "" {
			out = append(out, s)
		}
	}
	return out
}

func countPreviewed(sels []Selection) int {
	n := 0
	for _, s := range sels {
		if s.Image != "" {
			n++
		}
	}
	return n
}
