package schema

import "github.com/formpath/formpath/pkg/errors"

// Validate checks a document for authoring defects. It is meant to run at
// catalog load and in tests, not in the live flow: a schema that fails here is
// broken content, not a runtime condition.
//
// Checks:
//   - document and section ids are non-empty
//   - question ids are unique within the document
//   - question types are members of the closed type set
//   - select questions carry at least one option
//   - every condition references a question that appears strictly earlier in
//     document traversal order (forward and cyclic references are rejected)
func Validate(doc *Document) error {
	if doc.ID == "" {
		return errors.New(errors.ErrCodeInvalidSchema, "document has no id")
	}

	seen := make(map[string]bool)
	for _, sec := range doc.Sections {
		if sec.ID == "" {
			return errors.New(errors.ErrCodeInvalidSchema, "%s: section has no id", doc.ID)
		}
		for _, q := range sec.Questions {
			if q.ID == "" {
				return errors.New(errors.ErrCodeInvalidSchema, "%s/%s: question has no id", doc.ID, sec.ID)
			}
			if seen[q.ID] {
				return errors.New(errors.ErrCodeInvalidSchema, "%s: duplicate question id %q", doc.ID, q.ID)
			}
			if !q.Type.Valid() {
				return errors.New(errors.ErrCodeInvalidSchema, "%s/%s: unknown question type %q", doc.ID, q.ID, q.Type)
			}
			if q.Type == TypeSelect && len(q.Options) == 0 {
				return errors.New(errors.ErrCodeInvalidSchema, "%s/%s: select question has no options", doc.ID, q.ID)
			}
			if q.Type != TypeSelect && len(q.Options) > 0 {
				return errors.New(errors.ErrCodeInvalidSchema, "%s/%s: options on non-select question", doc.ID, q.ID)
			}
			if q.Condition != nil {
				if q.Condition.FieldID == q.ID {
					return errors.New(errors.ErrCodeInvalidSchema, "%s/%s: condition references itself", doc.ID, q.ID)
				}
				if !seen[q.Condition.FieldID] {
					// Either an unknown id or a forward reference; both are
					// authoring defects because visibility would depend on a
					// question the user has not reached yet.
					return errors.New(errors.ErrCodeInvalidSchema,
						"%s/%s: condition references %q which does not appear earlier in the flow",
						doc.ID, q.ID, q.Condition.FieldID)
				}
			}
			seen[q.ID] = true
		}
	}
	return nil
}
