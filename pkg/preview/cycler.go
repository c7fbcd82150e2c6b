// Package preview tracks which candidate image each layout entry currently
// shows and the navigation history behind it.
//
// Every placed entry gets a random candidate from the catalog when previews
// are (re)generated. From there it can step to another random candidate
// ([Cycler.Next]), step back ([Cycler.Previous]) or jump to a named candidate
// ([Cycler.SelectExplicit]). Next and SelectExplicit push the image they
// replace onto a LIFO history, Previous pops it.
//
// A Cycler is not safe for concurrent use; callers serialize access.
package preview

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/layout"
)

// DefaultSeed seeds reproducible cyclers.
const DefaultSeed = uint64(42)

// State is the preview of one layout entry. Current is always one of the
// widget's candidate images.
type State struct {
	EntryID string   `json:"entry_id"`
	Widget  string   `json:"widget"`
	Current string   `json:"current"`
	History []string `json:"history"`
}

// Result is the outcome of initializing one entry during [Cycler.Regenerate].
// Exactly one of State and Err is set; an Err entry renders as a placeholder.
type Result struct {
	EntryID string `json:"entry_id"`
	Widget  string `json:"widget"`
	State   *State `json:"state,omitempty"`
	Err     error  `json:"-"`
}

// Cycler holds the preview state of every layout entry.
type Cycler struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	states  map[string]*State
}

// NewCycler creates a cycler drawing candidates from c. A nil rng uses a
// randomly seeded generator.
func NewCycler(c *catalog.Catalog, rng *rand.Rand) *Cycler {
	if c == nil {
		c = catalog.Empty()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Cycler{catalog: c, rng: rng, states: make(map[string]*State)}
}

// NewRand returns a generator that produces the same sequence for the same
// seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Catalog returns the catalog candidates are drawn from.
func (c *Cycler) Catalog() *catalog.Catalog { return c.catalog }

// SetCatalog replaces the catalog. A state whose current image is no longer
// a candidate is dropped, and history images that left the candidate set
// are pruned from the states that remain. It returns the dropped entry ids,
// sorted.
func (c *Cycler) SetCatalog(cat *catalog.Catalog) []string {
	if cat == nil {
		cat = catalog.Empty()
	}
	c.catalog = cat

	var dropped []string
	for id, s := range c.states {
		w, ok := cat.Get(s.Widget)
		if !ok || !w.HasImage(s.Current) {
			delete(c.states, id)
			dropped = append(dropped, id)
			continue
		}
		s.History = slices.DeleteFunc(s.History, func(img string) bool { return !w.HasImage(img) })
	}
	slices.Sort(dropped)
	return dropped
}

// Initialize picks a random candidate for entryID and starts an empty
// history, replacing any previous state of the entry. A widget with no
// candidates (or unknown to the catalog) yields MISSING_DATA and leaves no
// state behind.
func (c *Cycler) Initialize(entryID, widget string) (State, error) {
	delete(c.states, entryID)

	images := c.catalog.Candidates(widget)
	if len(images) == 0 {
		return State{}, errors.New(errors.ErrCodeMissingData, "widget %q has no preview images", widget)
	}
	s := &State{
		EntryID: entryID,
		Widget:  widget,
		Current: images[c.rng.IntN(len(images))],
		History: []string{},
	}
	c.states[entryID] = s
	return s.clone(), nil
}

// Next pushes the current image and moves to a random candidate that
// differs from it. With a single distinct candidate the image stays the same.
func (c *Cycler) Next(entryID string) (State, error) {
	s, err := c.lookup(entryID)
	if err != nil {
		return State{}, err
	}

	var others []string
	for _, img := range c.catalog.Candidates(s.Widget) {
		if img != s.Current {
			others = append(others, img)
		}
	}
	s.History = append(s.History, s.Current)
	if len(others) > 0 {
		s.Current = others[c.rng.IntN(len(others))]
	}
	return s.clone(), nil
}

// Previous restores the most recently replaced image. An empty history is a
// no-op.
func (c *Cycler) Previous(entryID string) (State, error) {
	s, err := c.lookup(entryID)
	if err != nil {
		return State{}, err
	}
	if n := len(s.History); n > 0 {
		s.Current = s.History[n-1]
		s.History = s.History[:n-1]
	}
	return s.clone(), nil
}

// SelectExplicit switches to filename, pushing the current image. A filename
// that is not a candidate of the entry's widget is rejected with
// INVALID_SELECTION and the state is left unchanged.
func (c *Cycler) SelectExplicit(entryID, filename string) (State, error) {
	s, err := c.lookup(entryID)
	if err != nil {
		return State{}, err
	}
	w, _ := c.catalog.Get(s.Widget)
	if !w.HasImage(filename) {
		return s.clone(), errors.New(errors.ErrCodeInvalidSelection, "%q is not a preview of %s", filename, s.Widget)
	}
	s.History = append(s.History, s.Current)
	s.Current = filename
	return s.clone(), nil
}

// Regenerate discards every state and history and initializes each entry
// afresh, in layout order.
func (c *Cycler) Regenerate(entries []layout.Entry) []Result {
	clear(c.states)
	results := make([]Result, len(entries))
	for i, e := range entries {
		results[i] = Result{EntryID: e.ID, Widget: e.Widget}
		s, err := c.Initialize(e.ID, e.Widget)
		if err != nil {
			results[i].Err = err
			continue
		}
		results[i].State = &s
	}
	return results
}

// Forget drops the state of entryID.
func (c *Cycler) Forget(entryID string) {
	delete(c.states, entryID)
}

// Reset drops every state.
func (c *Cycler) Reset() {
	clear(c.states)
}

// Get returns a copy of the state of entryID.
func (c *Cycler) Get(entryID string) (State, bool) {
	s, ok := c.states[entryID]
	if !ok {
		return State{}, false
	}
	return s.clone(), true
}

// Len returns the number of entries with a preview.
func (c *Cycler) Len() int { return len(c.states) }

func (c *Cycler) lookup(entryID string) (*State, error) {
	s, ok := c.states[entryID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no preview for entry %q", entryID)
	}
	return s, nil
}

func (s *State) clone() State {
	out := *s
	out.History = slices.Clone(s.History)
	if out.History == nil {
		out.History = []string{}
	}
	return out
}
