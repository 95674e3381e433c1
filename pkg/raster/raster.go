// Package raster turns reference-PDF pages into page images for the overlay
// renderer.
//
// The real implementation shells out to pdftoppm (poppler-utils); the
// interface exists so the export pipeline and its tests can run without the
// binary installed.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/formpath/formpath/pkg/errors"
)

// Supersample is the scale factor between PDF points and rendered pixels.
// Pages render at 1.5x so the re-embedded JPEG stays crisp at print size.
const Supersample = 1.5

// DPI is the render resolution implied by Supersample (72 points per inch).
const DPI = int(72 * Supersample)

// jpegQuality balances background fidelity against output size.
const jpegQuality = 85

// Rasterizer renders every page of a PDF to a JPEG image, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfData []byte, pageCount int) ([][]byte, error)
}

// Poppler rasterizes via the pdftoppm binary.
type Poppler struct {
	// Binary overrides the pdftoppm path. Empty means $PATH lookup.
	Binary string
}

func (p *Poppler) binary() string {
	if p.Binary != "" {
		return p.Binary
	}
	return "pdftoppm"
}

// Rasterize writes the PDF to a scratch directory, renders each page with
// pdftoppm, and returns the JPEG bytes in page order. The page count from the
// parsed document is cross-checked against what poppler produced; a mismatch
// means the two readers disagree about the file and the overlay cannot be
// trusted.
func (p *Poppler) Rasterize(ctx context.Context, pdfData []byte, pageCount int) ([][]byte, error) {
	bin := p.binary()
	if _, err := exec.LookPath(bin); err != nil {
		return nil, errors.New(errors.ErrCodeRender,
			"rendering requires poppler. Install with:\n  macOS:  brew install poppler\n  Linux:  apt install poppler-utils")
	}

	dir, err := os.MkdirTemp("", "formpath-raster-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "creating scratch directory")
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "reference.pdf")
	if err := os.WriteFile(src, pdfData, 0o600); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "writing reference document")
	}

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, bin,
		"-jpeg",
		"-jpegopt", fmt.Sprintf("quality=%d", jpegQuality),
		"-r", fmt.Sprintf("%d", DPI),
		src, prefix,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "pdftoppm: %s", stderr.String())
	}

	matches, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "collecting rendered pages")
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(matches)

	if len(matches) != pageCount {
		return nil, errors.New(errors.ErrCodeRender,
			"rendered %d pages, reference document has %d", len(matches), pageCount)
	}

	pages := make([][]byte, 0, len(matches))
	for _, m := range matches {
		img, err := os.ReadFile(m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "reading rendered page %s", filepath.Base(m))
		}
		pages = append(pages, img)
	}
	return pages, nil
}
