// Package layout maintains the ordered composition of placed widgets.
//
// A [Sequencer] holds the layout entries in composition order and decides
// where a dropped or dragged entry lands from the vertical pointer
// coordinate. The decision itself is the pure function
// [ComputeInsertionIndex], which only looks at entry midpoints and is
// independent of how the entries are rendered.
//
// # Geometry
//
// The sequencer does not know how entries are drawn. A [Measurer] turns the
// current entries into [Geometry] (one vertical midpoint per entry):
//
//	seq := layout.NewSequencer(layout.Rows{Height: 40})
//	hero := seq.InsertAt("hero", 0)       // empty layout: appended
//	foot := seq.InsertAt("footer", 1000)  // below everything: appended
//	seq.InsertAt("features", 50)          // lands between hero and footer
//
// Callers that already know the rendered geometry (a browser client
// reporting bounding boxes) pass it directly with [Sequencer.InsertAtWith]
// and [Sequencer.ReorderWith].
//
// A Sequencer is not safe for concurrent use.
package layout
