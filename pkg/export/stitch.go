package export

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"

	"github.com/matzehuels/wireframe/pkg/errors"
)

// decodeImage decodes a PNG, JPEG or WebP image. WebP is picked by file
// extension, everything else by content sniffing.
func decodeImage(r io.Reader, name string) (image.Image, error) {
	if strings.EqualFold(path.Ext(name), ".webp") {
		return webp.Decode(r)
	}
	return imaging.Decode(r)
}

// Stitch stacks images vertically in order, left-aligned from y=0. The
// canvas is as wide as the widest image and as tall as all images together;
// uncovered pixels stay transparent.
func Stitch(images []image.Image) *image.NRGBA {
	width, height := 0, 0
	for _, img := range images {
		b := img.Bounds()
		width = max(width, b.Dx())
		height += b.Dy()
	}

	canvas := imaging.New(width, height, color.Transparent)
	y := 0
	for _, img := range images {
		canvas = imaging.Paste(canvas, img, image.Pt(0, y))
		y += img.Bounds().Dy()
	}
	return canvas
}

// encodePNG encodes the stitched canvas.
func encodePNG(img image.Image) ([]byte, error) {
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stitched image is empty")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
