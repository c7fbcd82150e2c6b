package studio

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/export"
	"github.com/matzehuels/wireframe/pkg/layout"
	"github.com/matzehuels/wireframe/pkg/preview"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		catalog.Widget{Name: "A", Images: []string{"a1.png", "a2.png"}, HTML: []string{"h1.html", "h2.html"}},
		catalog.Widget{Name: "B", Images: []string{"b1.png"}},
		catalog.Widget{Name: "Blank", Images: []string{}},
	)
}

// memAssets serves 4x4 PNGs for every image and "<widget>/<file>" as HTML.
// When gate is non-nil, Image blocks until it is closed.
type memAssets struct {
	gate    chan struct{}
	started chan struct{}
	once    sync.Once
}

func (m *memAssets) Image(ctx context.Context, widget, file string) (io.ReadCloser, error) {
	if m.gate != nil {
		m.once.Do(func() { close(m.started) })
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	return io.NopCloser(&buf), nil
}

func (m *memAssets) HTML(ctx context.Context, widget, file string) ([]byte, error) {
	return []byte(widget + "/" + file), nil
}

func (m *memAssets) String() string { return "mem" }

func newTestStudio(assets export.Assets) *Studio {
	logger := log.New(io.Discard)
	return New(Options{
		Catalog:  testCatalog(),
		Rand:     preview.NewRand(preview.DefaultSeed),
		Exporter: export.New(assets, export.Options{Logger: logger}),
		Logger:   logger,
	})
}

func widgetsOf(s Snapshot) []string {
	out := make([]string, len(s.Layout))
	for i, v := range s.Layout {
		out[i] = v.Widget
	}
	return out
}

func TestDropAndDrag(t *testing.T) {
	s := newTestStudio(&memAssets{})

	a, err := s.Drop("A", 0, nil)
	if err != nil {
		t.Fatalf("Drop error: %v", err)
	}
	b, _ := s.Drop("B", 100, nil) // below everything: append
	s.Drop("A", 0, nil)           // above everything: prepend

	snap := s.Snapshot()
	if got := widgetsOf(snap); len(got) != 3 || got[0] != "A" || got[1] != "A" || got[2] != "B" {
		t.Fatalf("layout = %v", got)
	}
	if snap.Layout[1].ID != a.ID {
		t.Errorf("first drop should now be second")
	}

	// Drag B to the top.
	if err := s.Drag(b.ID, 0, nil); err != nil {
		t.Fatalf("Drag error: %v", err)
	}
	if got := s.Snapshot().Layout[0].ID; got != b.ID {
		t.Errorf("top entry = %s, want %s", got, b.ID)
	}

	if err := s.Drag("missing", 0, nil); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Drag(missing) = %v, want NOT_FOUND", err)
	}
	if _, err := s.Drop("Nope", 0, nil); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Drop(unknown widget) = %v, want NOT_FOUND", err)
	}
}

func TestDropWithClientGeometry(t *testing.T) {
	s := newTestStudio(&memAssets{})
	first, _ := s.Drop("A", 0, nil)
	second, _ := s.Drop("B", 10, nil)

	geom := []layout.Geometry{{ID: first.ID, MidY: 50}, {ID: second.ID, MidY: 150}}
	e, err := s.Drop("B", 120, geom)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Layout[1].ID; got != e.ID {
		t.Errorf("entry dropped at y=120 should land between, got layout %v", widgetsOf(s.Snapshot()))
	}
}

func TestUpdateAndPlaceholders(t *testing.T) {
	s := newTestStudio(&memAssets{})
	a, _ := s.Drop("A", 100, nil)
	s.Drop("Blank", 100, nil)

	before := s.Snapshot()
	if before.Layout[0].Preview != nil {
		t.Error("no preview before the first update")
	}

	snap := s.Update()
	if snap.Layout[0].Preview == nil || snap.Layout[0].Placeholder {
		t.Errorf("A should have a preview: %+v", snap.Layout[0])
	}
	blank := snap.Layout[1]
	if blank.Preview != nil || !blank.Placeholder {
		t.Errorf("Blank should be a placeholder: %+v", blank)
	}

	st, err := s.Next(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.History) != 1 {
		t.Errorf("history = %v", st.History)
	}
	if _, err := s.Next(blank.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Next on placeholder = %v, want NOT_FOUND", err)
	}

	// Update resets history
	snap = s.Update()
	if h := snap.Layout[0].Preview.History; len(h) != 0 {
		t.Errorf("history after Update = %v", h)
	}
}

func TestSelectPreviousRemoveClear(t *testing.T) {
	s := newTestStudio(&memAssets{})
	a, _ := s.Drop("A", 100, nil)
	s.Update()
	orig := s.Snapshot().Layout[0].Preview.Current

	if _, err := s.Select(a.ID, "b1.png"); !errors.Is(err, errors.ErrCodeInvalidSelection) {
		t.Errorf("Select(foreign image) = %v", err)
	}
	other := "a1.png"
	if orig == other {
		other = "a2.png"
	}
	st, err := s.Select(a.ID, other)
	if err != nil || st.Current != other {
		t.Fatalf("Select = %+v, %v", st, err)
	}
	st, _ = s.Previous(a.ID)
	if st.Current != orig {
		t.Errorf("Previous = %q, want %q", st.Current, orig)
	}

	if !s.Remove(a.ID) {
		t.Error("Remove should report true")
	}
	if s.Remove(a.ID) {
		t.Error("second Remove should be a no-op")
	}
	if _, err := s.Next(a.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Error("removed entry should have no preview")
	}

	s.Drop("A", 0, nil)
	s.Update()
	s.Clear()
	if snap := s.Snapshot(); len(snap.Layout) != 0 {
		t.Errorf("layout after Clear = %v", widgetsOf(snap))
	}
}

func TestSelections(t *testing.T) {
	s := newTestStudio(&memAssets{})
	s.Drop("A", 100, nil)
	s.Drop("Blank", 100, nil)
	s.Update()
	s.Drop("B", 100, nil) // added after update: no preview yet

	sels := s.Selections()
	if len(sels) != 3 {
		t.Fatalf("selections = %+v", sels)
	}
	a := sels[0]
	wantHTML := map[string]string{"a1.png": "h1.html", "a2.png": "h2.html"}[a.Image]
	if a.Image == "" || a.HTML != wantHTML {
		t.Errorf("A selection = %+v", a)
	}
	if sels[1].Image != "" || sels[2].Image != "" {
		t.Errorf("entries without preview should not carry images: %+v", sels)
	}
}

func TestExport(t *testing.T) {
	s := newTestStudio(&memAssets{})

	if _, err := s.Export(context.Background(), "empty"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Export with nothing previewed = %v, want INVALID_INPUT", err)
	}
	if s.Exporting() {
		t.Error("exporting flag must be restored after failure")
	}

	s.Drop("A", 100, nil)
	s.Update()
	arch, err := s.Export(context.Background(), "My Project!")
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if arch.Filename() != "My Project.zip" || len(arch.Data) == 0 {
		t.Errorf("archive = %s (%d bytes)", arch.Filename(), len(arch.Data))
	}
	if s.Exporting() {
		t.Error("exporting flag must be cleared")
	}
}

func TestExportRejectsConcurrent(t *testing.T) {
	assets := &memAssets{gate: make(chan struct{}), started: make(chan struct{})}
	s := newTestStudio(assets)
	s.Drop("B", 100, nil)
	s.Update()

	done := make(chan error, 1)
	go func() {
		_, err := s.Export(context.Background(), "first")
		done <- err
	}()
	<-assets.started

	if !s.Exporting() {
		t.Error("Exporting should be true while an export runs")
	}
	// Other actions stay available during export.
	if snap := s.Snapshot(); !snap.Exporting {
		t.Error("snapshot should report exporting")
	}
	if _, err := s.Export(context.Background(), "second"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("concurrent Export = %v, want INVALID_INPUT", err)
	}

	close(assets.gate)
	if err := <-done; err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if s.Exporting() {
		t.Error("exporting flag must be cleared")
	}
}

func TestExportNotConfigured(t *testing.T) {
	s := New(Options{Catalog: testCatalog(), Logger: log.New(io.Discard)})
	if _, err := s.Export(context.Background(), "p"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Export = %v, want UNSUPPORTED", err)
	}
}

func TestSetCatalog(t *testing.T) {
	s := New(Options{CatalogErr: errors.New(errors.ErrCodeManifestLoad, "boom"), Logger: log.New(io.Discard)})
	c, err := s.Catalog()
	if c.Len() != 0 || !errors.Is(err, errors.ErrCodeManifestLoad) {
		t.Fatalf("Catalog = %d widgets, %v", c.Len(), err)
	}
	if _, err := s.Drop("A", 0, nil); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Drop on empty catalog = %v", err)
	}

	s.SetCatalog(testCatalog(), nil)
	if _, err := s.Catalog(); err != nil {
		t.Errorf("catalog error should be cleared, got %v", err)
	}
	if _, err := s.Drop("A", 0, nil); err != nil {
		t.Errorf("Drop after reload = %v", err)
	}
}

func TestSetCatalogKeepsPreviewsValid(t *testing.T) {
	s := newTestStudio(&memAssets{})
	a, _ := s.Drop("A", 0, nil)
	b, _ := s.Drop("B", 100, nil)
	s.Update()

	s.SetCatalog(catalog.New(
		catalog.Widget{Name: "A", Images: []string{"a9.png"}},
		catalog.Widget{Name: "B", Images: []string{"b1.png"}},
	), nil)

	snap := s.Snapshot()
	if len(snap.Layout) != 2 {
		t.Fatalf("layout len = %d, want 2", len(snap.Layout))
	}
	for _, v := range snap.Layout {
		if v.Preview != nil && !slices.Contains(v.Candidates, v.Preview.Current) {
			t.Errorf("%s shows %q, not in %v", v.Widget, v.Preview.Current, v.Candidates)
		}
	}
	if snap.Layout[0].ID != a.ID || snap.Layout[0].Preview != nil {
		t.Errorf("A should lose its stale preview: %+v", snap.Layout[0])
	}
	if snap.Layout[1].ID != b.ID || snap.Layout[1].Preview == nil {
		t.Errorf("B should keep its preview: %+v", snap.Layout[1])
	}

	// Export only sees valid selections.
	for _, sel := range s.Selections() {
		if sel.Widget == "A" && sel.Image != "" {
			t.Errorf("stale selection exported: %+v", sel)
		}
	}

	s.Update()
	if st := s.Snapshot().Layout[0].Preview; st == nil || st.Current != "a9.png" {
		t.Errorf("Update should redraw A from the new catalog, got %+v", st)
	}
}

func TestConcurrentActions(t *testing.T) {
	s := newTestStudio(&memAssets{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, _ := s.Drop("A", float64(i), nil)
			s.Update()
			s.Next(e.ID)
			s.Snapshot()
		}(i)
	}
	wg.Wait()
	if n := len(s.Snapshot().Layout); n != 20 {
		t.Errorf("layout len = %d, want 20", n)
	}
}
