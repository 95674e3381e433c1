package export

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/formpath/formpath/pkg/catalog"
	"github.com/formpath/formpath/pkg/pdf"
	"github.com/formpath/formpath/pkg/schema"
)

func TestReportEntriesMatchVisibleQuestions(t *testing.T) {
	form := mustForm(t, "I-90")
	answers := schema.AnswerSet{"family_name": "Okafor", "other_names": "yes"}

	wantTotal := 0
	for _, sec := range form.Document.Sections {
		wantTotal += len(schema.VisibleQuestions(sec, answers))
	}

	entries := reportEntries(form, answers)
	if len(entries) != wantTotal {
		t.Fatalf("reportEntries = %d rows, want one per visible question (%d)", len(entries), wantTotal)
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		key := entry.Section + "|" + entry.Label
		if seen[key] {
			t.Errorf("duplicate entry %q", key)
		}
		seen[key] = true
	}

	// Closing the gate removes exactly the gated follow-up.
	answers["other_names"] = "no"
	if got := reportEntries(form, answers); len(got) != wantTotal-1 {
		t.Errorf("after hiding the follow-up: %d rows, want %d", len(got), wantTotal-1)
	}

	// A blank required answer still gets a row, flagged as missing.
	for _, entry := range reportEntries(form, answers) {
		if entry.Value == "(required, not provided)" && entry.Provided {
			t.Errorf("missing required answer marked as provided: %q", entry.Label)
		}
	}
}

// decodeContentStreams inflates every FlateDecode stream in the document so
// text operators can be inspected.
func decodeContentStreams(t *testing.T, raw []byte) string {
	t.Helper()
	var out bytes.Buffer
	rest := raw
	for {
		i := bytes.Index(rest, []byte("stream"))
		if i < 0 {
			break
		}
		seg := bytes.TrimLeft(rest[i+len("stream"):], "\r\n")
		end := bytes.Index(seg, []byte("endstream"))
		if end < 0 {
			break
		}
		if zr, err := zlib.NewReader(bytes.NewReader(seg[:end])); err == nil {
			_, _ = io.Copy(&out, zr)
			zr.Close()
		}
		rest = seg[end+len("endstream"):]
	}
	return out.String()
}

func TestRenderReportFooterOnEveryPage(t *testing.T) {
	// Enough questions to spill onto continuation pages.
	sec := schema.Section{ID: "long", Title: "Long Section"}
	answers := schema.AnswerSet{}
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("q%02d", i)
		sec.Questions = append(sec.Questions, schema.Question{
			ID:    id,
			Label: "Question " + id,
			Type:  schema.TypeText,
		})
		answers.Set(id, "answer "+id)
	}
	form := &catalog.Form{
		ID:    "T-1",
		Title: "Footer Check",
		Document: &schema.Document{
			ID:       "T-1",
			Sections: []schema.Section{sec},
		},
	}

	data, err := renderReport(form, answers)
	if err != nil {
		t.Fatalf("renderReport: %v", err)
	}

	doc, err := pdf.Parse(data)
	if err != nil {
		t.Fatalf("parsing rendered report: %v", err)
	}
	if doc.PageCount() < 2 {
		t.Fatalf("report fits on %d page(s); the footer check needs a continuation page", doc.PageCount())
	}

	content := decodeContentStreams(t, data)
	if got := strings.Count(content, reportFooterNote); got < doc.PageCount() {
		t.Errorf("disclaimer footer on %d of %d pages", got, doc.PageCount())
	}
	if got := strings.Count(content, "Page "); got < doc.PageCount() {
		t.Errorf("page counter on %d of %d pages", got, doc.PageCount())
	}
}
