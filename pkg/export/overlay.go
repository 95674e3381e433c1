package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/fieldmap"
	"github.com/formpath/formpath/pkg/pdf"
)

// Overlay text metrics. Font size derives from the box height but never
// exceeds the cap, so tall boxes don't produce billboard text.
const (
	overlayFontCapPt = 11.0
	overlayBoxFactor = 0.62
	overlayInsetPt   = 2.0
	// markRatio sizes the filled square against the shorter box dimension.
	markRatio = 0.5
)

// creationDate pins the PDF metadata clock so identical inputs produce
// byte-identical output.
var creationDate = time.Unix(0, 0).UTC()

// renderOverlay composes the filled document: each page of the rasterized
// reference re-embedded full-bleed at its native size, with the plan's text
// and marks drawn on top in vector space. pages must hold one JPEG per
// document page.
func renderOverlay(doc *pdf.Document, pages [][]byte, ops []Op) ([]byte, error) {
	if len(pages) != doc.PageCount() {
		return nil, errors.New(errors.ErrCodeRender,
			"have %d page images for %d pages", len(pages), doc.PageCount())
	}

	first := doc.Page(0)
	f := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	f.SetCreationDate(creationDate)
	f.SetModificationDate(creationDate)
	f.SetAutoPageBreak(false, 0)
	f.SetMargins(0, 0, 0)
	f.SetFont("Helvetica", "", overlayFontCapPt)
	f.SetTextColor(0, 0, 139)
	f.SetFillColor(0, 0, 139)

	for i := 0; i < doc.PageCount(); i++ {
		page := doc.Page(i)
		f.AddPageFormat("P", gofpdf.SizeType{Wd: page.Width, Ht: page.Height})

		name := fmt.Sprintf("page-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "JPEG"}
		f.RegisterImageOptionsReader(name, opts, bytes.NewReader(pages[i]))
		f.ImageOptions(name, 0, 0, page.Width, page.Height, false, opts, 0, "")

		for _, op := range ops {
			if op.Page != i {
				continue
			}
			drawOp(f, page, op)
		}
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "composing overlay document")
	}
	return buf.Bytes(), nil
}

// drawOp places one plan operation, converting the box from PDF user space
// (origin bottom-left) to the composer's top-left coordinates.
func drawOp(f *gofpdf.Fpdf, page pdf.Page, op Op) {
	x := op.Rect.LLX
	y := page.Height - op.Rect.URY
	w := op.Rect.Width()
	h := op.Rect.Height()

	switch op.Kind {
	case fieldmap.KindText:
		size := h * overlayBoxFactor
		if size > overlayFontCapPt {
			size = overlayFontCapPt
		}
		f.SetFontSize(size)
		// Clip, never wrap: a value longer than its box truncates at the
		// box edge instead of spilling into neighboring fields.
		f.ClipRect(x, y, w, h, false)
		baseline := y + h/2 + size*0.35
		f.Text(x+overlayInsetPt, baseline, op.Value)
		f.ClipEnd()
	case fieldmap.KindMark:
		side := w
		if h < w {
			side = h
		}
		side *= markRatio
		f.Rect(x+(w-side)/2, y+(h-side)/2, side, side, "F")
	}
}
