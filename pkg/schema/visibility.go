package schema

// VisibleQuestions returns the questions in sec that currently apply given the
// answers: every question whose condition is absent, or whose condition's
// expected value equals the current answer for the gating field by exact
// case-sensitive match. Order is preserved.
//
// This is the only place visibility is computed. Step counting, navigation,
// review and readiness all derive from it so the flow can never disagree with
// itself about which questions apply.
func VisibleQuestions(sec Section, answers AnswerSet) []Question {
	visible := make([]Question, 0, len(sec.Questions))
	for _, q := range sec.Questions {
		if q.Condition == nil || answers.Get(q.Condition.FieldID) == q.Condition.ExpectedValue {
			visible = append(visible, q)
		}
	}
	return visible
}

// TotalSteps returns the number of currently-visible questions across the
// whole document. Recomputed on every call; never cache it across answer
// mutations.
func TotalSteps(doc *Document, answers AnswerSet) int {
	n := 0
	for _, sec := range doc.Sections {
		n += len(VisibleQuestions(sec, answers))
	}
	return n
}

// StepNumber returns the 1-based step number for the question at questionIdx
// within the visible list of the section at sectionIdx.
func StepNumber(doc *Document, sectionIdx, questionIdx int, answers AnswerSet) int {
	n := 0
	for i := 0; i < sectionIdx && i < len(doc.Sections); i++ {
		n += len(VisibleQuestions(doc.Sections[i], answers))
	}
	return n + questionIdx + 1
}
