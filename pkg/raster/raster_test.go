package raster

import (
	"context"
	"strings"
	"testing"

	"github.com/formpath/formpath/pkg/errors"
)

func TestRasterizeMissingBinary(t *testing.T) {
	p := &Poppler{Binary: "definitely-not-pdftoppm"}
	_, err := p.Rasterize(context.Background(), []byte("%PDF-1.4"), 1)
	if !errors.Is(err, errors.ErrCodeRender) {
		t.Fatalf("want RENDER_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "poppler") {
		t.Errorf("error should carry the install hint, got %q", err.Error())
	}
}

func TestDefaultBinary(t *testing.T) {
	var p Poppler
	if p.binary() != "pdftoppm" {
		t.Fatalf("default binary = %q", p.binary())
	}
}
