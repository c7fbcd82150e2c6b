package layout

import "math"

// Geometry is the rendered vertical position of one layout entry.
type Geometry struct {
	ID   string  `json:"id"`
	MidY float64 `json:"mid_y"`
}

// ComputeInsertionIndex returns where an entry dropped at pointerY belongs.
//
// Entries are scanned in order, skipping excludedID. For each entry the
// offset pointerY - MidY is computed; the entry with a negative offset
// closest to zero is the one to insert before. Equal offsets keep the
// earlier entry. The returned index counts positions in entries with the
// excluded entry removed; when no entry lies below the pointer the result
// is the length of that sequence (append).
func ComputeInsertionIndex(entries []Geometry, excludedID string, pointerY float64) int {
	best := math.Inf(-1)
	target := -1
	pos := 0
	for _, g := range entries {
		if excludedID != "" && g.ID == excludedID {
			continue
		}
		offset := pointerY - g.MidY
		if offset < 0 && offset > best {
			best = offset
			target = pos
		}
		pos++
	}
	if target < 0 {
		return pos
	}
	return target
}

// Measurer reports the rendered geometry of a layout.
type Measurer interface {
	Measure(entries []Entry) []Geometry
}

// Rows lays entries out as uniform rows starting at Top.
// Entry i has its midpoint at Top + i*Height + Height/2.
type Rows struct {
	Top    float64
	Height float64
}

// Measure implements Measurer.
func (r Rows) Measure(entries []Entry) []Geometry {
	h := r.Height
	if h <= 0 {
		h = 1
	}
	out := make([]Geometry, len(entries))
	for i, e := range entries {
		out[i] = Geometry{ID: e.ID, MidY: r.Top + float64(i)*h + h/2}
	}
	return out
}

// Stacked lays entries out top to bottom using a per-entry height, the way
// preview images of different sizes stack on a page.
type Stacked struct {
	Top    float64
	Height func(Entry) float64
}

// Measure implements Measurer.
func (s Stacked) Measure(entries []Entry) []Geometry {
	out := make([]Geometry, len(entries))
	y := s.Top
	for i, e := range entries {
		h := 1.0
		if s.Height != nil {
			h = max(s.Height(e), 0)
		}
		out[i] = Geometry{ID: e.ID, MidY: y + h/2}
		y += h
	}
	return out
}
