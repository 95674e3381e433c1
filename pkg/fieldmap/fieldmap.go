// Package fieldmap maps collected answer keys onto reference-document fields.
//
// A FieldMap is static per-form data: for each answer key it lists the target
// fields to fill on the official PDF, each naming a widget field key plus how
// to fill it (write text, or place a mark when the answer equals a match
// value). Field maps are authored and versioned independently of the
// reference documents, so a target whose field key no longer resolves against
// the current PDF is expected drift, not an error.
package fieldmap

import (
	"sort"

	"github.com/formpath/formpath/pkg/errors"
)

// Kind selects how a target field is filled.
type Kind string

// Target field kinds.
const (
	// KindText writes the answer value as a string into the field's box.
	KindText Kind = "text"
	// KindMark places a filled square in the field's box when the answer
	// equals the target's MatchValue exactly.
	KindMark Kind = "mark"
)

// TargetField is one placement instruction for an answer.
type TargetField struct {
	FieldKey   string `toml:"field"`
	Kind       Kind   `toml:"kind"`
	MatchValue string `toml:"match,omitempty"` // required iff Kind == KindMark
}

// FieldMap maps answer keys to their ordered target fields.
type FieldMap map[string][]TargetField

// SortedKeys returns the answer keys in sorted order. Rendering iterates in
// this order so output is deterministic for identical inputs.
func (m FieldMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks authoring constraints: kinds are members of the closed kind
// set, mark targets carry a match value and text targets do not.
func (m FieldMap) Validate() error {
	for _, key := range m.SortedKeys() {
		for _, t := range m[key] {
			if t.FieldKey == "" {
				return errors.New(errors.ErrCodeInvalidSchema, "field map %q: target has no field key", key)
			}
			switch t.Kind {
			case KindText:
				if t.MatchValue != "" {
					return errors.New(errors.ErrCodeInvalidSchema,
						"field map %q/%s: match value on text target", key, t.FieldKey)
				}
			case KindMark:
				if t.MatchValue == "" {
					return errors.New(errors.ErrCodeInvalidSchema,
						"field map %q/%s: mark target has no match value", key, t.FieldKey)
				}
			default:
				return errors.New(errors.ErrCodeInvalidSchema,
					"field map %q/%s: unknown kind %q", key, t.FieldKey, t.Kind)
			}
		}
	}
	return nil
}
