package export

import (
	"strings"

	"github.com/formpath/formpath/pkg/fieldmap"
	"github.com/formpath/formpath/pkg/pdf"
	"github.com/formpath/formpath/pkg/schema"
)

// Op is one drawing instruction for the overlay: write a value into a box, or
// mark a checkbox-sized box.
type Op struct {
	Kind  fieldmap.Kind
	Page  int      // zero-based page index
	Rect  pdf.Rect // PDF user space, bottom-left origin
	Value string   // text ops only
}

// BuildPlan computes the ordered drawing operations for an answer set against
// a parsed reference document. It is pure: no I/O, and the same inputs always
// yield the same plan.
//
// Answer keys iterate in sorted order and placements in page order, so plans
// are deterministic. Blank answers produce no ops. Targets whose field key
// does not resolve in the document are skipped silently: authored field maps
// drift from reference revisions, and a missing field is expected, not a
// fault. Mark targets fire only on an exact match with the answer value.
func BuildPlan(answers schema.AnswerSet, fields fieldmap.FieldMap, doc *pdf.Document) []Op {
	var ops []Op
	for _, key := range fields.SortedKeys() {
		value := strings.TrimSpace(answers.Get(key))
		if value == "" {
			continue
		}
		for _, target := range fields[key] {
			placements := doc.Field(target.FieldKey)
			if placements == nil {
				continue
			}
			switch target.Kind {
			case fieldmap.KindText:
				for _, p := range placements {
					ops = append(ops, Op{Kind: fieldmap.KindText, Page: p.Page, Rect: p.Rect, Value: value})
				}
			case fieldmap.KindMark:
				if value != target.MatchValue {
					continue
				}
				for _, p := range placements {
					ops = append(ops, Op{Kind: fieldmap.KindMark, Page: p.Page, Rect: p.Rect})
				}
			}
		}
	}
	return ops
}
