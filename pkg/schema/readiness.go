package schema

import "math"

// Readiness returns the completion percentage of the document: the share of
// currently-applicable required questions that have a non-blank answer,
// rounded to the nearest integer.
//
// A question counts as applicable when it is required and its condition (if
// any) evaluates true against the current answers. A document with no
// applicable required questions is vacuously 100% ready.
func Readiness(doc *Document, answers AnswerSet) int {
	required := 0
	filled := 0
	for _, sec := range doc.Sections {
		for _, q := range VisibleQuestions(sec, answers) {
			if !q.Required {
				continue
			}
			required++
			if !answers.IsBlank(q.ID) {
				filled++
			}
		}
	}
	if required == 0 {
		return 100
	}
	return int(math.Round(100 * float64(filled) / float64(required)))
}
