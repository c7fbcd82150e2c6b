package catalog

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/httputil"
)

// Source loads a catalog from somewhere.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
	// String describes the source for logs.
	String() string
}

// FileSource reads a manifest.json from the local filesystem.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (*Catalog, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestLoad, err, "open %s", s.Path)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestLoad, err, "parse %s", s.Path)
	}
	return c, nil
}

func (s FileSource) String() string { return "file:" + s.Path }

// HTTPSource fetches a manifest.json over HTTP, e.g. from a running
// wireframe server.
type HTTPSource struct {
	URL    string
	Client *httputil.Client
}

// Load implements Source.
func (s HTTPSource) Load(ctx context.Context) (*Catalog, error) {
	client := s.Client
	if client == nil {
		client = httputil.NewClient(map[string]string{"Accept": "application/json"})
	}
	body, err := client.Open(ctx, s.URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestLoad, err, "fetch %s", s.URL)
	}
	defer body.Close()

	c, err := Decode(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestLoad, err, "parse %s", s.URL)
	}
	return c, nil
}

func (s HTTPSource) String() string { return s.URL }

// LoadOrEmpty loads the catalog from src. A failure is logged and an empty,
// usable catalog is returned alongside the error so callers can still
// report it.
func LoadOrEmpty(ctx context.Context, src Source, logger *log.Logger) (*Catalog, error) {
	if logger == nil {
		logger = log.Default()
	}
	c, err := src.Load(ctx)
	if err != nil {
		logger.Error("failed to load manifest", "source", src.String(), "err", err)
		return Empty(), err
	}
	logger.Debug("loaded manifest", "source", src.String(), "widgets", c.Len())
	return c, nil
}
