// Package pkg provides the core libraries for FormPath guided form filling.
//
// # Overview
//
// FormPath walks a user through a U.S. immigration form as a sequence of
// plain-language questions, then renders their answers onto the official PDF.
// The pkg directory is organized into three main areas:
//
//  1. Forms - the catalog and question-flow domain ([catalog], [schema],
//     [fieldmap], [wizard])
//  2. Export - the PDF pipeline ([pdf], [raster], [export])
//  3. Infrastructure - persistence and shared plumbing ([store], [errors],
//     [buildinfo])
//
// # Architecture
//
// The typical data flow through FormPath:
//
//	catalog (embedded form definitions)
//	         ↓
//	    [wizard] package (question flow, visibility, readiness)
//	         ↓
//	    [store] package (answer persistence: file, redis, mongo)
//	         ↓
//	    [export] package (fetch reference → parse → rasterize → overlay)
//	         ↓
//	    filled PDF, or a summary report when the reference is unavailable
//
// # Quick Start
//
// Load a form, answer its questions, and export:
//
//	import (
//	    "context"
//	    "github.com/formpath/formpath/pkg/catalog"
//	    "github.com/formpath/formpath/pkg/export"
//	    "github.com/formpath/formpath/pkg/schema"
//	    "github.com/formpath/formpath/pkg/wizard"
//	)
//
//	// 1. Pick a form from the catalog
//	registry, _ := catalog.Default()
//	form, _ := registry.Get("I-90")
//
//	// 2. Drive the question flow
//	ctrl := wizard.New(form.Document, schema.AnswerSet{})
//	q, _ := ctrl.CurrentQuestion()
//	ctrl.SetAnswer(context.Background(), q.ID, "Rivera")
//	_ = ctrl.Continue(context.Background())
//
//	// 3. Render the answers onto the official PDF
//	exporter := export.New(&export.DirSource{Dir: "./forms"})
//	result, _ := exporter.Export(context.Background(), form, ctrl.Answers(), ".")
//
// # Main Packages
//
//   - [catalog]: embedded form definitions, search, and the intake quiz
//   - [schema]: document model, validation, visibility, and readiness
//   - [wizard]: the stateful question-flow controller
//   - [fieldmap]: answer-to-PDF-field target mappings
//   - [store]: answer persistence backends
//   - [pdf]: reference PDF reader (pages, widget geometry)
//   - [raster]: page rasterization via poppler
//   - [export]: overlay rendering with summary-report fallback
//   - [errors]: coded errors shared across packages
package pkg
