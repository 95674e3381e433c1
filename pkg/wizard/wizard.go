// Package wizard implements the question-flow state machine.
//
// A Controller tracks a (section, question) cursor over a schema.Document and
// mutates one AnswerSet. Navigation recomputes question visibility lazily, at
// the moment of each transition: answering a question never moves the cursor,
// even when the answer changes which questions are visible elsewhere in the
// flow. Every answer edit and every transition persists the answer set through
// the configured saver; persistence failures are logged and swallowed so a
// broken store can never interrupt the user.
package wizard

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/schema"
)

// State is the controller's position in its lifecycle.
type State int

// Controller states.
const (
	// StateQuestion means the cursor points at a question.
	StateQuestion State = iota
	// StateReview is the terminal review state after the last question.
	StateReview
	// StateExited signals that the user navigated back out of the flow;
	// the caller owns what happens next (typically returning to a catalog).
	StateExited
)

// Direction records which way the last navigation moved, for callers that
// animate or style transitions differently.
type Direction int

// Navigation directions.
const (
	Forward Direction = iota
	Back
)

// Position is the wizard cursor: a section index and an index into that
// section's currently-visible question list.
type Position struct {
	Section   int
	Question  int
	Direction Direction
}

// Saver persists answer snapshots. store.Store satisfies it.
type Saver interface {
	Save(ctx context.Context, formID string, answers schema.AnswerSet) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithSaver attaches a persistence backend. Without one, answers live only in
// memory for the lifetime of the controller.
func WithSaver(s Saver) Option {
	return func(c *Controller) { c.saver = s }
}

// WithLogger sets the logger used for swallowed persistence errors.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller drives a single user through one document's question flow.
// It is not safe for concurrent use; one interactive context owns it.
type Controller struct {
	doc     *schema.Document
	answers schema.AnswerSet
	pos     Position
	state   State
	saver   Saver
	logger  *log.Logger
}

// New creates a controller positioned at the first question of the first
// section. answers may be a previously-saved set to resume from; nil starts
// empty.
func New(doc *schema.Document, answers schema.AnswerSet, opts ...Option) *Controller {
	if answers == nil {
		answers = schema.AnswerSet{}
	}
	c := &Controller{
		doc:     doc,
		answers: answers,
		pos:     Position{Section: 0, Question: 0, Direction: Forward},
		state:   StateQuestion,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Position returns the current cursor.
func (c *Controller) Position() Position { return c.pos }

// Answers returns the live answer set. Callers must treat it as read-only and
// mutate through SetAnswer.
func (c *Controller) Answers() schema.AnswerSet { return c.answers }

// Document returns the schema the controller is traversing.
func (c *Controller) Document() *schema.Document { return c.doc }

// CurrentSection returns the section under the cursor.
func (c *Controller) CurrentSection() schema.Section {
	return c.doc.Sections[c.pos.Section]
}

// CurrentQuestion returns the question under the cursor, or ok=false when the
// cursor points past the section's visible list (possible after an answer
// elsewhere hid questions; corrected by the next navigation).
func (c *Controller) CurrentQuestion() (schema.Question, bool) {
	visible := schema.VisibleQuestions(c.CurrentSection(), c.answers)
	if c.pos.Question < 0 || c.pos.Question >= len(visible) {
		return schema.Question{}, false
	}
	return visible[c.pos.Question], true
}

// TotalSteps returns the current number of visible questions in the document.
func (c *Controller) TotalSteps() int {
	return schema.TotalSteps(c.doc, c.answers)
}

// StepNumber returns the 1-based number of the current step.
func (c *Controller) StepNumber() int {
	return schema.StepNumber(c.doc, c.pos.Section, c.pos.Question, c.answers)
}

// Readiness returns the completion percentage for the current answers.
func (c *Controller) Readiness() int {
	return schema.Readiness(c.doc, c.answers)
}

// SetAnswer records value for the question id and persists the snapshot.
// The cursor does not move: a value that hides or reveals questions elsewhere
// takes effect on the next navigation, not mid-edit.
func (c *Controller) SetAnswer(ctx context.Context, id, value string) {
	c.answers.Set(id, value)
	c.persist(ctx)
}

// Next advances the cursor: within the section's visible list first, then to
// the next section, and from the last visible question of the last section
// into review. Calling Next while already in review is a no-op, so reaching
// the terminal state is idempotent regardless of path.
func (c *Controller) Next(ctx context.Context) {
	if c.state != StateQuestion {
		return
	}
	visible := schema.VisibleQuestions(c.CurrentSection(), c.answers)
	switch {
	case c.pos.Question+1 < len(visible):
		c.pos.Question++
		c.pos.Direction = Forward
	case c.pos.Section+1 < len(c.doc.Sections):
		c.pos.Section++
		c.pos.Question = 0
		c.pos.Direction = Forward
	default:
		c.state = StateReview
	}
	c.persist(ctx)
}

// Prev moves the cursor backwards, landing on the last visible question of the
// previous section when leaving a section, and signalling exit from the very
// first question. When the previous section currently has no visible
// questions the index clamps to 0 rather than going negative.
func (c *Controller) Prev(ctx context.Context) {
	if c.state != StateQuestion {
		return
	}
	switch {
	case c.pos.Question > 0:
		c.pos.Question--
		c.pos.Direction = Back
	case c.pos.Section > 0:
		c.pos.Section--
		visible := schema.VisibleQuestions(c.CurrentSection(), c.answers)
		c.pos.Question = len(visible) - 1
		if c.pos.Question < 0 {
			c.pos.Question = 0
		}
		c.pos.Direction = Back
	default:
		c.state = StateExited
	}
	c.persist(ctx)
}

// Continue is the user-gated forward action: it refuses to advance past a
// required question whose answer is blank after trimming, returning a
// RequiredFieldError for inline display. Otherwise it behaves exactly as Next.
func (c *Controller) Continue(ctx context.Context) error {
	if q, ok := c.CurrentQuestion(); ok && q.Required && c.answers.IsBlank(q.ID) {
		return errors.New(errors.ErrCodeRequiredField,
			"This field is required. Please provide an answer before continuing.")
	}
	c.Next(ctx)
	return nil
}

// Skip advances without validation. Callers offer it only for optional
// questions; the controller does not enforce that beyond exposing the action.
func (c *Controller) Skip(ctx context.Context) {
	c.Next(ctx)
}

// Jump moves the cursor directly to (sectionIdx, questionIdx), returning the
// controller to the question state. Indices are trusted: callers derive them
// from VisibleQuestions at call time, typically when editing from review.
func (c *Controller) Jump(ctx context.Context, sectionIdx, questionIdx int) {
	c.pos = Position{Section: sectionIdx, Question: questionIdx, Direction: Forward}
	c.state = StateQuestion
	c.persist(ctx)
}

// Review transitions directly into the review state.
func (c *Controller) Review(ctx context.Context) {
	c.state = StateReview
	c.persist(ctx)
}

// persist saves the answer snapshot fire-and-forget. A storage failure must
// never interrupt the wizard flow, so it is logged and dropped.
func (c *Controller) persist(ctx context.Context) {
	if c.saver == nil {
		return
	}
	if err := c.saver.Save(ctx, c.doc.ID, c.answers); err != nil {
		c.logger.Warn("failed to persist answers", "form", c.doc.ID, "err", err)
	}
}
