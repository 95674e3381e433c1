package schema

import "testing"

// gatedDoc builds a document where q2 is revealed by answering q1 with "yes".
func gatedDoc() *Document {
	return &Document{
		ID: "TEST-1",
		Sections: []Section{
			{
				ID:    "s1",
				Title: "Section One",
				Questions: []Question{
					{ID: "q1", Label: "Gate?", Type: TypeYesNo, Required: true},
					{ID: "q2", Label: "Detail", Type: TypeText, Required: true,
						Condition: &Condition{FieldID: "q1", ExpectedValue: "yes"}},
				},
			},
		},
	}
}

func TestVisibleQuestions(t *testing.T) {
	doc := gatedDoc()

	tests := []struct {
		name    string
		answers AnswerSet
		wantIDs []string
	}{
		{"no answers", AnswerSet{}, []string{"q1"}},
		{"gate closed", AnswerSet{"q1": "no"}, []string{"q1"}},
		{"gate open", AnswerSet{"q1": "yes"}, []string{"q1", "q2"}},
		{"case sensitive", AnswerSet{"q1": "Yes"}, []string{"q1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleQuestions(doc.Sections[0], tt.answers)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d visible questions, want %d", len(got), len(tt.wantIDs))
			}
			for i, q := range got {
				if q.ID != tt.wantIDs[i] {
					t.Errorf("visible[%d] = %q, want %q", i, q.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestVisibilityNeverLeaksMismatchedCondition(t *testing.T) {
	doc := gatedDoc()

	// Whatever value q1 holds, q2 may only be visible on an exact match.
	for _, v := range []string{"", "no", "Yes", "YES", " yes", "yes "} {
		answers := AnswerSet{"q1": v}
		for _, q := range VisibleQuestions(doc.Sections[0], answers) {
			if q.Condition == nil {
				continue
			}
			if answers.Get(q.Condition.FieldID) != q.Condition.ExpectedValue {
				t.Errorf("q1=%q: question %q visible despite failed condition match", v, q.ID)
			}
		}
	}
}

func TestTotalStepsTracksGatingField(t *testing.T) {
	doc := gatedDoc()
	answers := AnswerSet{}

	if n := TotalSteps(doc, answers); n != 1 {
		t.Fatalf("TotalSteps with no answers = %d, want 1", n)
	}

	answers.Set("q1", "yes")
	if n := TotalSteps(doc, answers); n != 2 {
		t.Fatalf("TotalSteps after reveal = %d, want 2", n)
	}

	// Step count must drop immediately when the gate closes again.
	answers.Set("q1", "no")
	if n := TotalSteps(doc, answers); n != 1 {
		t.Fatalf("TotalSteps after gate closed = %d, want 1", n)
	}
}

func TestStepNumber(t *testing.T) {
	doc := &Document{
		ID: "TEST-2",
		Sections: []Section{
			{ID: "a", Questions: []Question{
				{ID: "a1", Type: TypeText},
				{ID: "a2", Type: TypeText},
			}},
			{ID: "b", Questions: []Question{
				{ID: "b1", Type: TypeText},
			}},
		},
	}

	if n := StepNumber(doc, 0, 0, AnswerSet{}); n != 1 {
		t.Errorf("StepNumber(0,0) = %d, want 1", n)
	}
	if n := StepNumber(doc, 0, 1, AnswerSet{}); n != 2 {
		t.Errorf("StepNumber(0,1) = %d, want 2", n)
	}
	if n := StepNumber(doc, 1, 0, AnswerSet{}); n != 3 {
		t.Errorf("StepNumber(1,0) = %d, want 3", n)
	}
}

func TestAnswerSetHelpers(t *testing.T) {
	a := AnswerSet{}
	a.Set("q1", "  ")
	if !a.IsBlank("q1") {
		t.Error("whitespace-only answer should be blank")
	}
	if a.IsBlank("missing") != true {
		t.Error("missing answer should be blank")
	}

	a.Set("q1", "value")
	clone := a.Clone()
	clone.Set("q1", "other")
	if a.Get("q1") != "value" {
		t.Error("Clone must not share storage with the original")
	}
}
