// Package schema defines the question-flow data model for FormPath documents.
//
// A Document is an ordered list of Sections, each holding an ordered list of
// Questions. Question visibility can depend on earlier answers through a
// Condition, so everything derived from the flow (step counts, navigation
// bounds, readiness) must be recomputed from the current AnswerSet rather than
// cached. VisibleQuestions is the single visibility function; every consumer
// goes through it.
package schema

import "strings"

// QuestionType identifies the input kind of a question. The set is closed;
// answer-input dispatch and overlay rendering both switch exhaustively on it.
type QuestionType string

// Supported question types.
const (
	TypeText     QuestionType = "text"
	TypeTextarea QuestionType = "textarea"
	TypeDate     QuestionType = "date"
	TypeSelect   QuestionType = "select"
	TypeYesNo    QuestionType = "yes_no"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeText, TypeTextarea, TypeDate, TypeSelect, TypeYesNo:
		return true
	}
	return false
}

// Condition gates a question's visibility on an earlier answer.
// The question is visible only when the answer stored under FieldID equals
// ExpectedValue by exact, case-sensitive string comparison.
type Condition struct {
	FieldID       string `toml:"field"`
	ExpectedValue string `toml:"value"`
}

// Question is a single prompt in a document flow.
type Question struct {
	ID        string       `toml:"id"`
	Label     string       `toml:"label"`
	Hint      string       `toml:"hint,omitempty"`
	Type      QuestionType `toml:"type"`
	Required  bool         `toml:"required"`
	Options   []string     `toml:"options,omitempty"` // select only
	Condition *Condition   `toml:"condition,omitempty"`
}

// Section groups consecutive questions under a title.
type Section struct {
	ID        string     `toml:"id"`
	Title     string     `toml:"title"`
	Questions []Question `toml:"questions"`
}

// Document is the full question flow for one form.
type Document struct {
	ID       string    `toml:"id"`
	Sections []Section `toml:"sections"`
}

// Question returns the question with the given id and whether it exists.
func (d *Document) Question(id string) (*Question, bool) {
	for si := range d.Sections {
		for qi := range d.Sections[si].Questions {
			if d.Sections[si].Questions[qi].ID == id {
				return &d.Sections[si].Questions[qi], true
			}
		}
	}
	return nil, false
}

// AnswerSet maps question ids to answer values for one in-progress document.
type AnswerSet map[string]string

// Get returns the stored value for id, or "" when unanswered.
func (a AnswerSet) Get(id string) string {
	return a[id]
}

// Set stores value under id.
func (a AnswerSet) Set(id, value string) {
	a[id] = value
}

// IsBlank reports whether the answer for id is absent or whitespace-only.
func (a AnswerSet) IsBlank(id string) bool {
	return strings.TrimSpace(a[id]) == ""
}

// Clone returns an independent copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
