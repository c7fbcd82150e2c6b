package layout

import (
	"slices"

	"github.com/google/uuid"
)

// Entry is one placed widget instance. Its position in the sequence is its
// composition order; ID only exists so callers can address it.
type Entry struct {
	ID     string `json:"id"`
	Widget string `json:"widget"`
}

// Sequencer holds the ordered layout entries.
type Sequencer struct {
	entries []Entry
	measure Measurer
	newID   func() string
}

// NewSequencer creates an empty sequencer. A nil measurer defaults to
// unit-height rows.
func NewSequencer(m Measurer) *Sequencer {
	if m == nil {
		m = Rows{Height: 1}
	}
	return &Sequencer{measure: m, newID: uuid.NewString}
}

// Entries returns a copy of the layout in composition order.
func (s *Sequencer) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s *Sequencer) Len() int { return len(s.entries) }

// Get returns the entry with the given id.
func (s *Sequencer) Get(id string) (Entry, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Geometry returns the current geometry according to the sequencer's measurer.
func (s *Sequencer) Geometry() []Geometry {
	return s.measure.Measure(s.entries)
}

// InsertAt places a new entry for widget at the position pointerY points to,
// measured with the sequencer's own measurer.
func (s *Sequencer) InsertAt(widget string, pointerY float64) Entry {
	return s.InsertAtWith(widget, pointerY, s.Geometry())
}

// InsertAtWith places a new entry using caller-supplied geometry.
func (s *Sequencer) InsertAtWith(widget string, pointerY float64, geom []Geometry) Entry {
	e := Entry{ID: s.newID(), Widget: widget}
	known := s.known(geom, "")
	idx := s.resolve(ComputeInsertionIndex(known, "", pointerY), known, "")
	s.entries = slices.Insert(s.entries, idx, e)
	return e
}

// Reorder moves the entry id to the position pointerY points to. It reports
// false when id is not in the layout.
func (s *Sequencer) Reorder(id string, pointerY float64) bool {
	return s.ReorderWith(id, pointerY, s.Geometry())
}

// ReorderWith moves the entry id using caller-supplied geometry.
func (s *Sequencer) ReorderWith(id string, pointerY float64, geom []Geometry) bool {
	from := s.indexOf(id)
	if from < 0 {
		return false
	}
	known := s.known(geom, id)
	idx := s.resolve(ComputeInsertionIndex(known, id, pointerY), known, id)

	e := s.entries[from]
	s.entries = slices.Delete(s.entries, from, from+1)
	s.entries = slices.Insert(s.entries, idx, e)
	return true
}

// Remove deletes the entry id. Removing an absent id is a no-op.
func (s *Sequencer) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return true
}

// Clear empties the layout.
func (s *Sequencer) Clear() {
	s.entries = nil
}

func (s *Sequencer) indexOf(id string) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
}

// known filters geom down to entries that exist in the layout, keeping the
// excluded entry so positions line up with ComputeInsertionIndex. An empty
// excluded id matches nothing.
func (s *Sequencer) known(geom []Geometry, excluded string) []Geometry {
	out := make([]Geometry, 0, len(geom))
	for _, g := range geom {
		if (excluded != "" && g.ID == excluded) || s.indexOf(g.ID) >= 0 {
			out = append(out, g)
		}
	}
	return out
}

// resolve maps an index over the scanned geometry (excluded entry removed)
// to an insertion index over the layout with the excluded entry removed.
// The target is the entry the new position goes before; appending when the
// index is past the scanned entries.
func (s *Sequencer) resolve(idx int, geom []Geometry, excluded string) int {
	pos := 0
	for _, g := range geom {
		if g.ID == excluded {
			continue
		}
		if pos == idx {
			return s.positionWithout(g.ID, excluded)
		}
		pos++
	}
	return len(s.entries) - boolToInt(excluded != "" && s.indexOf(excluded) >= 0)
}

func (s *Sequencer) positionWithout(id, excluded string) int {
	pos := 0
	for _, e := range s.entries {
		if e.ID == excluded {
			continue
		}
		if e.ID == id {
			return pos
		}
		pos++
	}
	return pos
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
