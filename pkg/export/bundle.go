package export

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Bundle is an exported composition before packaging.
type Bundle struct {
	// Name is the sanitized project name every file is named after.
	Name string
	// HTML holds the fragments of the previewed entries joined by newlines.
	HTML []byte
	// PNG is the vertical stack of the previewed images.
	PNG []byte
	// Layout lists one "[widget]" line per layout entry.
	Layout []byte
}

// File is one member of the bundle archive.
type File struct {
	Name string
	Data []byte
}

// Files returns the archive members in archive order.
func (b *Bundle) Files() []File {
	return []File{
		{Name: b.Name + ".html", Data: b.HTML},
		{Name: b.Name + ".png", Data: b.PNG},
		{Name: b.Name + "_layout.txt", Data: b.Layout},
	}
}

// WriteZip writes the bundle as a zip archive.
func (b *Bundle) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, f := range b.Files() {
		fw, err := zw.Create(f.Name)
		if err != nil {
			zw.Close()
			return err
		}
		if _, err := fw.Write(f.Data); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

// Zip returns the zip archive bytes.
func (b *Bundle) Zip() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.WriteZip(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// layoutText renders one "[widget]" line per entry, joined by newlines.
func layoutText(widgets []string) []byte {
	lines := make([]string, len(widgets))
	for i, w := range widgets {
		lines[i] = "[" + w + "]"
	}
	return []byte(strings.Join(lines, "\n"))
}
