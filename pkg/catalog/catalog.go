// Package catalog holds the built-in form definitions.
//
// Each form ships as a TOML file embedded into the binary: the question flow,
// display metadata for the catalog screens, the field map used by the overlay
// renderer, and the post-filing guidance shown after export. The files are
// validated once at load, so a bad definition fails at startup rather than
// mid-wizard.
package catalog

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/fieldmap"
	"github.com/formpath/formpath/pkg/schema"
)

//go:embed data/*.toml
var dataFS embed.FS

// Form is one catalog entry: a question flow plus everything the UI and the
// export pipeline need to present and render it.
type Form struct {
	ID            string
	Title         string
	ShortTitle    string
	Category      string
	Description   string
	EstimatedTime string
	Difficulty    string
	FilingFee     string

	Document  *schema.Document
	Fields    fieldmap.FieldMap
	NextSteps []string
}

// formFile mirrors the on-disk TOML layout.
type formFile struct {
	ID            string           `toml:"id"`
	Title         string           `toml:"title"`
	ShortTitle    string           `toml:"short_title"`
	Category      string           `toml:"category"`
	Description   string           `toml:"description"`
	EstimatedTime string           `toml:"estimated_time"`
	Difficulty    string           `toml:"difficulty"`
	FilingFee     string           `toml:"filing_fee"`
	NextSteps     []string         `toml:"next_steps"`
	Sections      []schema.Section `toml:"sections"`
	Targets       []targetEntry    `toml:"targets"`
}

type targetEntry struct {
	Answer string                 `toml:"answer"`
	Fields []fieldmap.TargetField `toml:"fields"`
}

// Registry is an immutable set of loaded forms.
type Registry struct {
	forms []*Form        // sorted by ID
	byID  map[string]*Form
}

// Load parses and validates every embedded form definition.
func Load() (*Registry, error) {
	names, err := fs.Glob(dataFS, "data/*.toml")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "listing embedded form data")
	}
	sort.Strings(names)

	reg := &Registry{byID: make(map[string]*Form, len(names))}
	for _, name := range names {
		raw, err := dataFS.ReadFile(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading %s", name)
		}
		form, err := parseForm(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "loading %s", name)
		}
		if _, dup := reg.byID[form.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "duplicate form id %q in %s", form.ID, name)
		}
		reg.byID[form.ID] = form
		reg.forms = append(reg.forms, form)
	}

	sort.Slice(reg.forms, func(i, j int) bool { return reg.forms[i].ID < reg.forms[j].ID })
	return reg, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the registry of built-in forms, loading it on first use.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load()
	})
	return defaultReg, defaultErr
}

func parseForm(raw []byte) (*Form, error) {
	var f formFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "decoding form definition")
	}
	if f.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "form definition has no id")
	}

	doc := &schema.Document{ID: f.ID, Sections: f.Sections}
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}

	fields := make(fieldmap.FieldMap, len(f.Targets))
	for _, t := range f.Targets {
		if _, dup := fields[t.Answer]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "duplicate target entry for answer %q", t.Answer)
		}
		if _, ok := doc.Question(t.Answer); !ok {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "target entry %q names no question", t.Answer)
		}
		fields[t.Answer] = t.Fields
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	return &Form{
		ID:            f.ID,
		Title:         f.Title,
		ShortTitle:    f.ShortTitle,
		Category:      f.Category,
		Description:   f.Description,
		EstimatedTime: f.EstimatedTime,
		Difficulty:    f.Difficulty,
		FilingFee:     f.FilingFee,
		Document:      doc,
		Fields:        fields,
		NextSteps:     f.NextSteps,
	}, nil
}

// Forms returns all forms sorted by ID.
func (r *Registry) Forms() []*Form {
	out := make([]*Form, len(r.forms))
	copy(out, r.forms)
	return out
}

// Get returns the form with the given id. Lookup is case-insensitive so
// "i-90" on the command line finds "I-90".
func (r *Registry) Get(id string) (*Form, error) {
	if f, ok := r.byID[id]; ok {
		return f, nil
	}
	for _, f := range r.forms {
		if strings.EqualFold(f.ID, id) {
			return f, nil
		}
	}
	return nil, errors.New(errors.ErrCodeFormNotFound, "unknown form: %s", id)
}

// Categories returns the distinct form categories, sorted.
func (r *Registry) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range r.forms {
		if _, ok := seen[f.Category]; ok {
			continue
		}
		seen[f.Category] = struct{}{}
		out = append(out, f.Category)
	}
	sort.Strings(out)
	return out
}

// Search filters forms by free-text query and category. An empty query
// matches everything; an empty category matches all categories. The query is
// matched case-insensitively against the form's id, titles and description.
func (r *Registry) Search(query, category string) []*Form {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*Form
	for _, f := range r.forms {
		if category != "" && !strings.EqualFold(f.Category, category) {
			continue
		}
		if q != "" && !matchesQuery(f, q) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func matchesQuery(f *Form, q string) bool {
	for _, s := range []string{f.ID, f.Title, f.ShortTitle, f.Description} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
