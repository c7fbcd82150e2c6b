package export

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/httputil"
)

// URL prefixes under which a wireframe server publishes assets.
const (
	ImagePrefix = "/img_wireframes/"
	HTMLPrefix  = "/wireframes/"
)

// Assets reads the image files and HTML fragments of widgets. A missing
// asset is reported with a NOT_FOUND error.
type Assets interface {
	// Image opens the image file of widget.
	Image(ctx context.Context, widget, file string) (io.ReadCloser, error)
	// HTML returns the HTML fragment of widget.
	HTML(ctx context.Context, widget, file string) ([]byte, error)
	// String identifies the asset location; it is part of bundle cache keys.
	String() string
}

// DirAssets reads assets from local directories laid out as
// <dir>/<widget>/<file>.
type DirAssets struct {
	ImageDir string
	HTMLDir  string
}

// Image implements Assets.
func (a DirAssets) Image(ctx context.Context, widget, file string) (io.ReadCloser, error) {
	path, err := assetPath(a.ImageDir, widget, file)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "image %s/%s", widget, file)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	return f, nil
}

// HTML implements Assets.
func (a DirAssets) HTML(ctx context.Context, widget, file string) ([]byte, error) {
	path, err := assetPath(a.HTMLDir, widget, file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "html %s/%s", widget, file)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return data, nil
}

func (a DirAssets) String() string {
	return "dir:" + a.ImageDir + "|" + a.HTMLDir
}

// assetPath joins dir, widget and file after rejecting names that could
// escape dir.
func assetPath(dir, widget, file string) (string, error) {
	if err := errors.ValidateWidgetName(widget); err != nil {
		return "", err
	}
	if err := errors.ValidateAssetFilename(file); err != nil {
		return "", err
	}
	return filepath.Join(dir, widget, file), nil
}

// HTTPAssets fetches assets from a running wireframe server (or any host
// with the same layout) at BaseURL.
type HTTPAssets struct {
	BaseURL string
	Client  *httputil.Client
}

// Image implements Assets.
func (a HTTPAssets) Image(ctx context.Context, widget, file string) (io.ReadCloser, error) {
	u, err := a.url(ImagePrefix, widget, file)
	if err != nil {
		return nil, err
	}
	return a.client().Open(ctx, u)
}

// HTML implements Assets.
func (a HTTPAssets) HTML(ctx context.Context, widget, file string) ([]byte, error) {
	u, err := a.url(HTMLPrefix, widget, file)
	if err != nil {
		return nil, err
	}
	return a.client().GetBytes(ctx, u)
}

func (a HTTPAssets) String() string { return a.BaseURL }

func (a HTTPAssets) url(prefix, widget, file string) (string, error) {
	if err := errors.ValidateWidgetName(widget); err != nil {
		return "", err
	}
	if err := errors.ValidateAssetFilename(file); err != nil {
		return "", err
	}
	return strings.TrimRight(a.BaseURL, "/") + prefix + url.PathEscape(widget) + "/" + url.PathEscape(file), nil
}

func (a HTTPAssets) client() *httputil.Client {
	if a.Client != nil {
		return a.Client
	}
	return httputil.NewClient(nil)
}
