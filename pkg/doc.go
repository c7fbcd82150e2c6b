// Package pkg provides the core libraries for the wireframe composition studio.
//
// # Overview
//
// A wireframe is an ordered stack of widgets, each shown through one of its
// representative screenshots. The pkg directory is organized as follows:
//
//  1. [catalog] - Widget manifest: generation, loading and publishing
//  2. [layout] - Layout Sequencer (ordered entries and drag geometry)
//  3. [preview] - Preview Cycler (per-entry image selection and history)
//  4. [export] - Bundle exporter (stitched PNG, HTML and layout text)
//  5. [studio] - Session state tying the three together
//
// Supporting packages: [cache], [config], [errors], [httputil],
// [observability] and [buildinfo].
//
// # Data Flow
//
//	img_wireframes/ + kadence_wireframes/
//	         ↓
//	    [catalog] package (manifest.json)
//	         ↓
//	    [studio] package (layout + previews)
//	         ↓
//	    [export] package (<project>.zip)
//
// [catalog]: github.com/matzehuels/wireframe/pkg/catalog
// [layout]: github.com/matzehuels/wireframe/pkg/layout
// [preview]: github.com/matzehuels/wireframe/pkg/preview
// [export]: github.com/matzehuels/wireframe/pkg/export
// [studio]: github.com/matzehuels/wireframe/pkg/studio
// [cache]: github.com/matzehuels/wireframe/pkg/cache
// [config]: github.com/matzehuels/wireframe/pkg/config
// [errors]: github.com/matzehuels/wireframe/pkg/errors
// [httputil]: github.com/matzehuels/wireframe/pkg/httputil
// [observability]: github.com/matzehuels/wireframe/pkg/observability
// [buildinfo]: github.com/matzehuels/wireframe/pkg/buildinfo
package pkg
