// Package export turns a completed answer set into a downloadable PDF.
//
// Two strategies, tried in order:
//
//  1. Coordinate overlay: fetch the official reference PDF, read its page
//     geometry and field widget boxes, rasterize the pages, and compose a new
//     document with the answers drawn at their field coordinates.
//  2. Synthetic report: a generated answer summary, used whenever any step of
//     the overlay fails.
//
// The overlay is all-or-nothing: a fault in fetch, parse, rasterization or
// composition abandons the whole strategy rather than emitting a partially
// filled form. Only when the fallback also fails does Export return an error.
package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/formpath/formpath/pkg/catalog"
	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/pdf"
	"github.com/formpath/formpath/pkg/raster"
	"github.com/formpath/formpath/pkg/schema"
	"github.com/formpath/formpath/pkg/store"
)

// Strategy names which rendering path produced the output.
type Strategy string

// Rendering strategies.
const (
	StrategyOverlay Strategy = "overlay"
	StrategyReport  Strategy = "report"
)

// Result describes a successful export.
type Result struct {
	Path     string
	Strategy Strategy
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRasterizer overrides the page rasterizer. Tests inject fakes here;
// the default shells out to poppler.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(e *Exporter) { e.rasterizer = r }
}

// WithStore attaches the answer store. After a successful export the form's
// saved snapshot is cleared, mirroring the end of the guided flow.
func WithStore(s store.Store) Option {
	return func(e *Exporter) { e.store = s }
}

// WithLogger sets the logger for strategy fallbacks and swallowed store errors.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// Exporter renders completed forms to PDF files.
type Exporter struct {
	source     Source
	rasterizer raster.Rasterizer
	store      store.Store
	logger     *log.Logger
}

// New creates an Exporter that fetches reference documents from source.
func New(source Source, opts ...Option) *Exporter {
	e := &Exporter{
		source:     source,
		rasterizer: &raster.Poppler{},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders the form's answers into outDir and returns where the file
// landed and which strategy produced it. The overlay strategy is attempted
// first; any overlay fault downgrades to the synthetic report with a logged
// warning. A report failure is fatal.
func (e *Exporter) Export(ctx context.Context, form *catalog.Form, answers schema.AnswerSet, outDir string) (*Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "creating output directory %s", outDir)
	}

	data, err := e.renderFilled(ctx, form, answers)
	strategy := StrategyOverlay
	filename := form.ID + "_filled.pdf"
	if err != nil {
		e.logger.Warn("overlay unavailable, generating summary instead",
			"form", form.ID, "err", err)
		strategy = StrategyReport
		filename = form.ID + "_summary.pdf"
		data, err = renderReport(form, answers)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "rendering summary for %s", form.ID)
		}
	}

	path := filepath.Join(outDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "writing %s", path)
	}

	e.clearSaved(ctx, form.ID)
	return &Result{Path: path, Strategy: strategy}, nil
}

// renderFilled runs the overlay strategy end to end.
func (e *Exporter) renderFilled(ctx context.Context, form *catalog.Form, answers schema.AnswerSet) ([]byte, error) {
	raw, err := e.source.Fetch(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	doc, err := pdf.Parse(raw)
	if err != nil {
		return nil, err
	}
	pages, err := e.rasterizer.Rasterize(ctx, raw, doc.PageCount())
	if err != nil {
		return nil, err
	}
	ops := BuildPlan(answers, form.Fields, doc)
	return renderOverlay(doc, pages, ops)
}

// clearSaved drops the form's persisted answers after a successful export.
// Failures are logged and swallowed: the export already succeeded and a stale
// snapshot only means the user resumes a finished form.
func (e *Exporter) clearSaved(ctx context.Context, formID string) {
	if e.store == nil {
		return
	}
	if err := e.store.Clear(ctx, formID); err != nil {
		e.logger.Warn("could not clear saved answers", "form", formID, "err", err)
	}
}
