package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/formpath/formpath/pkg/catalog"
	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/fieldmap"
	"github.com/formpath/formpath/pkg/pdf"
	"github.com/formpath/formpath/pkg/schema"
	"github.com/formpath/formpath/pkg/store"
)

// buildRefPDF assembles a classic-xref reference PDF from numbered object
// bodies; bodies[0] must be the catalog.
func buildRefPDF(bodies ...string) []byte {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(bodies))
	for i, body := range bodies {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xrefOff := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(bodies)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(bodies)+1, xrefOff)
	return []byte(b.String())
}

// referenceWithChoices is a one-page document with a text field and three
// checkbox widgets.
func referenceWithChoices() []byte {
	return buildRefPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R 5 0 R 6 0 R 7 0 R] >>",
		"<< /Subtype /Widget /T (Part1_FamilyName) /Rect [60 700 300 720] >>",
		"<< /Subtype /Widget /T (Choice_A) /Rect [60 600 74 614] >>",
		"<< /Subtype /Widget /T (Choice_B) /Rect [60 580 74 594] >>",
		"<< /Subtype /Widget /T (Choice_C) /Rect [60 560 74 574] >>",
	)
}

// fakeRasterizer returns a fixed JPEG per page without shelling out.
type fakeRasterizer struct {
	err error
}

func (r *fakeRasterizer) Rasterize(_ context.Context, _ []byte, pageCount int) ([][]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 9, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 9; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	pages := make([][]byte, pageCount)
	for i := range pages {
		pages[i] = buf.Bytes()
	}
	return pages, nil
}

func mustForm(t *testing.T, id string) *catalog.Form {
	t.Helper()
	reg, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	f, err := reg.Get(id)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return f
}

// A select answer marks exactly the choice whose match value equals the
// answer, and nothing else.
func TestBuildPlanMarksExactChoice(t *testing.T) {
	doc, err := pdf.Parse(referenceWithChoices())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	fields := fieldmap.FieldMap{
		"choice": {
			{FieldKey: "Choice_A", Kind: fieldmap.KindMark, MatchValue: "Option A"},
			{FieldKey: "Choice_B", Kind: fieldmap.KindMark, MatchValue: "Option B"},
			{FieldKey: "Choice_C", Kind: fieldmap.KindMark, MatchValue: "Option C"},
		},
		"family_name": {
			{FieldKey: "Part1_FamilyName", Kind: fieldmap.KindText},
		},
	}
	answers := schema.AnswerSet{"choice": "Option B", "family_name": "Rivera"}

	ops := BuildPlan(answers, fields, doc)
	if len(ops) != 2 {
		t.Fatalf("plan has %d ops, want 2: %+v", len(ops), ops)
	}
	// Sorted key order: choice before family_name.
	if ops[0].Kind != fieldmap.KindMark {
		t.Errorf("ops[0] = %+v, want mark", ops[0])
	}
	if ops[0].Rect.LLY != 580 {
		t.Errorf("mark landed at LLY %v, want 580 (Choice_B)", ops[0].Rect.LLY)
	}
	if ops[1].Kind != fieldmap.KindText || ops[1].Value != "Rivera" {
		t.Errorf("ops[1] = %+v, want text Rivera", ops[1])
	}
}

func TestBuildPlanSkipsBlankAndUnknown(t *testing.T) {
	doc, err := pdf.Parse(referenceWithChoices())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fields := fieldmap.FieldMap{
		"family_name": {{FieldKey: "Part1_FamilyName", Kind: fieldmap.KindText}},
		"ghost":       {{FieldKey: "Field_Not_In_PDF", Kind: fieldmap.KindText}},
		"blank":       {{FieldKey: "Part1_FamilyName", Kind: fieldmap.KindText}},
	}
	answers := schema.AnswerSet{
		"ghost": "present but unmapped", // key missing from the PDF: skipped
		"blank": "   ",                  // whitespace-only: skipped
	}
	if ops := BuildPlan(answers, fields, doc); len(ops) != 0 {
		t.Errorf("plan = %+v, want empty", ops)
	}
}

func TestBuildPlanIsDeterministic(t *testing.T) {
	doc, err := pdf.Parse(referenceWithChoices())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fields := fieldmap.FieldMap{
		"a": {{FieldKey: "Choice_A", Kind: fieldmap.KindMark, MatchValue: "x"}},
		"b": {{FieldKey: "Choice_B", Kind: fieldmap.KindMark, MatchValue: "x"}},
		"c": {{FieldKey: "Part1_FamilyName", Kind: fieldmap.KindText}},
	}
	answers := schema.AnswerSet{"a": "x", "b": "x", "c": "v"}

	first := BuildPlan(answers, fields, doc)
	for i := 0; i < 10; i++ {
		again := BuildPlan(answers, fields, doc)
		if len(again) != len(first) {
			t.Fatalf("plan length changed: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("plan op %d changed: %+v vs %+v", j, first[j], again[j])
			}
		}
	}
}

func writeReference(t *testing.T, dir, formID string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, formID+".pdf"), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExportOverlay(t *testing.T) {
	form := mustForm(t, "I-90")
	refDir := t.TempDir()
	outDir := t.TempDir()
	writeReference(t, refDir, form.ID, referenceWithChoices())

	e := New(&DirSource{Dir: refDir}, WithRasterizer(&fakeRasterizer{}))
	answers := schema.AnswerSet{"family_name": "Okafor", "given_name": "Ada"}

	res, err := e.Export(context.Background(), form, answers, outDir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Strategy != StrategyOverlay {
		t.Fatalf("strategy = %s, want overlay", res.Strategy)
	}
	if filepath.Base(res.Path) != "I-90_filled.pdf" {
		t.Errorf("path = %s, want I-90_filled.pdf", res.Path)
	}

	out, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	// The composed document mirrors the reference geometry.
	doc, err := pdf.Parse(out)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Errorf("output has %d pages, want 1", doc.PageCount())
	}
	if p := doc.Page(0); p.Width != 612 || p.Height != 792 {
		t.Errorf("output page = %+v, want 612x792", p)
	}
}

func TestExportIsByteIdentical(t *testing.T) {
	form := mustForm(t, "I-90")
	refDir := t.TempDir()
	writeReference(t, refDir, form.ID, referenceWithChoices())
	e := New(&DirSource{Dir: refDir}, WithRasterizer(&fakeRasterizer{}))
	answers := schema.AnswerSet{"family_name": "Okafor", "other_names": "no"}

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		outDir := t.TempDir()
		res, err := e.Export(context.Background(), form, answers, outDir)
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		data, err := os.ReadFile(res.Path)
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, data)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("identical inputs produced different output bytes")
	}
}

func TestExportFallsBackOnUnparseableReference(t *testing.T) {
	form := mustForm(t, "N-400")
	refDir := t.TempDir()
	outDir := t.TempDir()
	writeReference(t, refDir, form.ID, []byte("not a pdf at all"))

	mem := store.NewMemoryStore()
	answers := schema.AnswerSet{"family_name": "Okafor", "other_names": "no"}
	if err := mem.Save(context.Background(), form.ID, answers); err != nil {
		t.Fatal(err)
	}

	e := New(&DirSource{Dir: refDir}, WithRasterizer(&fakeRasterizer{}), WithStore(mem))
	res, err := e.Export(context.Background(), form, answers, outDir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Strategy != StrategyReport {
		t.Fatalf("strategy = %s, want report", res.Strategy)
	}
	if filepath.Base(res.Path) != "N-400_summary.pdf" {
		t.Errorf("path = %s, want N-400_summary.pdf", res.Path)
	}

	// The report parses and carries at least one page.
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := pdf.Parse(data)
	if err != nil {
		t.Fatalf("summary does not parse: %v", err)
	}
	if doc.PageCount() < 1 {
		t.Error("summary has no pages")
	}

	// Saved answers are cleared after a successful export.
	if _, found, err := mem.Load(context.Background(), form.ID); err != nil || found {
		t.Errorf("Load after export: found=%v err=%v, want miss", found, err)
	}
}

func TestExportFallsBackOnFetchError(t *testing.T) {
	form := mustForm(t, "I-131")
	e := New(&DirSource{Dir: t.TempDir()}, WithRasterizer(&fakeRasterizer{}))

	res, err := e.Export(context.Background(), form, schema.AnswerSet{}, t.TempDir())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Strategy != StrategyReport {
		t.Errorf("strategy = %s, want report", res.Strategy)
	}
}

func TestExportFallsBackOnRasterizerError(t *testing.T) {
	form := mustForm(t, "I-90")
	refDir := t.TempDir()
	writeReference(t, refDir, form.ID, referenceWithChoices())

	broken := &fakeRasterizer{err: errors.New(errors.ErrCodeRender, "no poppler here")}
	e := New(&DirSource{Dir: refDir}, WithRasterizer(broken))

	res, err := e.Export(context.Background(), form, schema.AnswerSet{}, t.TempDir())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Strategy != StrategyReport {
		t.Errorf("strategy = %s, want report", res.Strategy)
	}
}

func TestDisplayAnswer(t *testing.T) {
	yesNo := schema.Question{ID: "q", Type: schema.TypeYesNo, Required: true}
	reqText := schema.Question{ID: "q", Type: schema.TypeText, Required: true}
	optText := schema.Question{ID: "q", Type: schema.TypeText}

	tests := []struct {
		name         string
		q            schema.Question
		answers      schema.AnswerSet
		want         string
		wantProvided bool
	}{
		{name: "yes", q: yesNo, answers: schema.AnswerSet{"q": "yes"}, want: "Yes", wantProvided: true},
		{name: "no", q: yesNo, answers: schema.AnswerSet{"q": "no"}, want: "No", wantProvided: true},
		{name: "text", q: reqText, answers: schema.AnswerSet{"q": "hello"}, want: "hello", wantProvided: true},
		{name: "required blank", q: reqText, answers: schema.AnswerSet{}, want: "(required, not provided)"},
		{name: "optional blank", q: optText, answers: schema.AnswerSet{"q": "  "}, want: "(not provided)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, provided := displayAnswer(tt.q, tt.answers)
			if got != tt.want || provided != tt.wantProvided {
				t.Errorf("displayAnswer() = (%q, %v), want (%q, %v)", got, provided, tt.want, tt.wantProvided)
			}
		})
	}
}

func TestRenderReportHidesGatedQuestions(t *testing.T) {
	form := mustForm(t, "I-90")

	// With other_names unanswered, the gated follow-up is not visible; the
	// report must render the same visible set the wizard shows.
	answers := schema.AnswerSet{"family_name": "Okafor"}
	data, err := renderReport(form, answers)
	if err != nil {
		t.Fatalf("renderReport: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty report")
	}

	// Answering yes adds the follow-up and grows the report.
	answers["other_names"] = "yes"
	bigger, err := renderReport(form, answers)
	if err != nil {
		t.Fatalf("renderReport: %v", err)
	}
	if len(bigger) <= len(data) {
		t.Errorf("report did not grow when a gated question became visible (%d vs %d)", len(bigger), len(data))
	}
}
