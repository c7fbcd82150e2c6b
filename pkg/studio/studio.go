// Package studio holds the state of one composition session: the loaded
// catalog, the layout sequence, the preview of every entry and the export
// control.
//
// Methods correspond to user actions (drop a widget, drag an entry, press
// update, cycle a preview, export). A Studio is safe for concurrent use;
// every action is serialized so the layout and previews always change
// together. Export loads its assets without holding the lock.
package studio

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/export"
	"github.com/matzehuels/wireframe/pkg/layout"
	"github.com/matzehuels/wireframe/pkg/preview"
)

// Options configures a Studio.
type Options struct {
	// Catalog is the loaded catalog; nil means empty.
	Catalog *catalog.Catalog
	// CatalogErr is the error the catalog failed to load with, if any.
	CatalogErr error
	// Measurer lays out entries when callers send no geometry.
	Measurer layout.Measurer
	// Rand drives preview picks; nil seeds randomly.
	Rand *rand.Rand
	// Exporter packages bundles; nil disables Export.
	Exporter *export.Exporter
	Logger   *log.Logger
}

// Studio is the composition state.
type Studio struct {
	mu         sync.Mutex
	catalog    *catalog.Catalog
	catalogErr error
	seq        *layout.Sequencer
	cycler     *preview.Cycler
	exporter   *export.Exporter
	exporting  bool
	logger     *log.Logger
}

// New creates a studio with an empty layout.
func New(opts Options) *Studio {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Empty()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Studio{
		catalog:    cat,
		catalogErr: opts.CatalogErr,
		seq:        layout.NewSequencer(opts.Measurer),
		cycler:     preview.NewCycler(cat, opts.Rand),
		exporter:   opts.Exporter,
		logger:     logger,
	}
}

// EntryView is one layout entry with its preview, as shown to the user.
type EntryView struct {
	ID     string `json:"id"`
	Widget string `json:"widget"`
	// Preview is nil until previews are generated, or when the widget has
	// no images (Placeholder).
	Preview     *preview.State `json:"preview,omitempty"`
	Placeholder bool           `json:"placeholder"`
	// Candidates feeds the explicit-selection control.
	Candidates []string `json:"candidates"`
}

// Snapshot is the full user-visible state.
type Snapshot struct {
	Layout    []EntryView `json:"layout"`
	Exporting bool        `json:"exporting"`
}

// Catalog returns the catalog and the error it failed to load with, if any.
func (s *Studio) Catalog() (*catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog, s.catalogErr
}

// SetCatalog swaps in a reloaded catalog. The layout is kept. Entries
// showing an image the new catalog no longer lists lose their preview until
// the next Update.
func (s *Studio) SetCatalog(c *catalog.Catalog, loadErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil {
		c = catalog.Empty()
	}
	s.catalog, s.catalogErr = c, loadErr
	if dropped := s.cycler.SetCatalog(c); len(dropped) > 0 {
		s.logger.Info("previews reset by catalog reload", "entries", len(dropped))
	}
}

// Snapshot returns the current layout and previews.
func (s *Studio) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Studio) snapshot() Snapshot {
	entries := s.seq.Entries()
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = s.view(e)
	}
	return Snapshot{Layout: views, Exporting: s.exporting}
}

func (s *Studio) view(e layout.Entry) EntryView {
	v := EntryView{ID: e.ID, Widget: e.Widget, Candidates: s.catalog.Candidates(e.Widget)}
	if v.Candidates == nil {
		v.Candidates = []string{}
	}
	if st, ok := s.cycler.Get(e.ID); ok {
		v.Preview = &st
	} else {
		v.Placeholder = len(v.Candidates) == 0
	}
	return v
}

// Drop places a new entry for widget where pointerY points. geom is the
// geometry the client rendered; nil uses the studio's own measurer. Only
// catalog widgets can be dropped.
func (s *Studio) Drop(widget string, pointerY float64, geom []layout.Geometry) (layout.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.Get(widget); !ok {
		return layout.Entry{}, errors.New(errors.ErrCodeNotFound, "unknown widget %q", widget)
	}
	var e layout.Entry
	if geom == nil {
		e = s.seq.InsertAt(widget, pointerY)
	} else {
		e = s.seq.InsertAtWith(widget, pointerY, geom)
	}
	s.logger.Debug("dropped widget", "widget", widget, "id", e.ID, "entries", s.seq.Len())
	return e, nil
}

// Drag moves entry id to where pointerY points.
func (s *Studio) Drag(id string, pointerY float64, geom []layout.Geometry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ok bool
	if geom == nil {
		ok = s.seq.Reorder(id, pointerY)
	} else {
		ok = s.seq.ReorderWith(id, pointerY, geom)
	}
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no layout entry %q", id)
	}
	return nil
}

// Remove deletes entry id and its preview. It reports whether the entry
// existed.
func (s *Studio) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycler.Forget(id)
	return s.seq.Remove(id)
}

// Clear empties the layout and every preview.
func (s *Studio) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.Clear()
	s.cycler.Reset()
}

// Update discards all previews and draws a fresh random image for every
// entry. Entries whose widget has no images come back as placeholders.
func (s *Studio) Update() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.cycler.Regenerate(s.seq.Entries())
	for _, r := range results {
		if r.Err != nil {
			s.logger.Debug("preview placeholder", "widget", r.Widget, "reason", r.Err)
		}
	}
	return s.snapshot()
}

// Next moves entry id to another random candidate.
func (s *Studio) Next(id string) (preview.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycler.Next(id)
}

// Previous restores the image entry id showed before.
func (s *Studio) Previous(id string) (preview.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycler.Previous(id)
}

// Select shows file for entry id.
func (s *Studio) Select(id, file string) (preview.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycler.SelectExplicit(id, file)
}

// Exporting reports whether an export is running.
func (s *Studio) Exporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}

// Selections returns what an export would contain right now.
func (s *Studio) Selections() []export.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selections()
}

func (s *Studio) selections() []export.Selection {
	entries := s.seq.Entries()
	sels := make([]export.Selection, len(entries))
	for i, e := range entries {
		sels[i] = export.Selection{Widget: e.Widget}
		if st, ok := s.cycler.Get(e.ID); ok {
			w, _ := s.catalog.Get(e.Widget)
			sels[i].Image = st.Current
			sels[i].HTML = w.HTMLFor(st.Current)
		}
	}
	return sels
}

// Export packages the current composition under project. Only one export
// runs at a time; a second call while one is running is rejected. The
// exporting flag is cleared however the export ends.
func (s *Studio) Export(ctx context.Context, project string) (*export.Archive, error) {
	s.mu.Lock()
	if s.exporter == nil {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeUnsupported, "export is not configured")
	}
	if s.exporting {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeInvalidInput, "export already in progress")
	}
	s.exporting = true
	req := export.Request{Project: project, Selections: s.selections()}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()
	}()

	arch, err := s.exporter.Export(ctx, req)
	if err != nil {
		s.logger.Error("export failed", "project", project, "err", err)
		return nil, err
	}
	return arch, nil
}
