// Package pdf reads just enough of a PDF file to support coordinate overlay:
// page sizes and the bounding boxes of form-field widgets.
//
// The reader handles classic cross-reference tables and uncompressed object
// dictionaries, which covers the reference documents the overlay renderer
// works against. Anything it cannot make sense of surfaces as a PARSE_ERROR;
// the export pipeline treats that as "overlay unavailable" and falls back to
// the synthetic report.
package pdf

import (
	"bytes"
	"strconv"
	"strings"
)

// Rect is a bounding box in PDF user space (origin bottom-left, points).
// Normalized so LLX <= URX and LLY <= URY.
type Rect struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 { return r.URY - r.LLY }

// Page is one page's geometry.
type Page struct {
	Width  float64 // points
	Height float64 // points
}

// Placement is one widget's location: which page and where on it.
type Placement struct {
	Page int // zero-based page index
	Rect Rect
}

// Document is the parsed geometry of a reference PDF.
type Document struct {
	pages  []Page
	fields map[string][]Placement
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Page returns the geometry of the zero-based page i.
func (d *Document) Page(i int) Page { return d.pages[i] }

// Field returns the widget placements for a field key, in page order.
// Field keys are the terminal component of the fully-qualified field name, so
// "form1.Part1_FamilyName" and a flat "Part1_FamilyName" both land under
// "Part1_FamilyName". A nil result means the key does not appear in the
// document.
func (d *Document) Field(key string) []Placement {
	return d.fields[key]
}

// FieldKeys returns the distinct field keys present in the document.
func (d *Document) FieldKeys() []string {
	out := make([]string, 0, len(d.fields))
	for k := range d.fields {
		out = append(out, k)
	}
	return out
}

// file is a raw PDF with its cross-reference table resolved.
type file struct {
	data    []byte
	xref    map[int]int64
	trailer dict
	cache   map[int]object
}

// Parse reads the document geometry out of raw PDF bytes.
func Parse(data []byte) (*Document, error) {
	f := &file{
		data:  data,
		xref:  make(map[int]int64),
		cache: make(map[int]object),
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, parseErr("missing PDF header")
	}
	if err := f.readXref(); err != nil {
		return nil, err
	}

	root, err := f.resolveDict(f.trailer["Root"])
	if err != nil {
		return nil, parseErr("document has no catalog: %v", err)
	}

	doc := &Document{fields: make(map[string][]Placement)}
	pagesRoot, err := f.resolveDict(root["Pages"])
	if err != nil {
		return nil, parseErr("catalog has no page tree: %v", err)
	}
	if err := f.walkPages(doc, pagesRoot, dict{}, 0); err != nil {
		return nil, err
	}
	if len(doc.pages) == 0 {
		return nil, parseErr("document has no pages")
	}
	return doc, nil
}

// startxref must appear within this many bytes of the end of the file.
const trailerWindow = 2048

func (f *file) readXref() error {
	tail := f.data
	if len(tail) > trailerWindow {
		tail = tail[len(tail)-trailerWindow:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return parseErr("startxref not found")
	}
	l := &lexer{data: tail, pos: idx + len("startxref")}
	l.skipSpace()
	off, err := l.parseNumber()
	if err != nil {
		return err
	}

	// Follow the /Prev chain; entries from newer tables win.
	offset := int64(off)
	for seen := map[int64]bool{}; ; {
		if seen[offset] {
			return parseErr("cyclic xref chain")
		}
		seen[offset] = true

		trailer, err := f.readXrefSection(offset)
		if err != nil {
			return err
		}
		if f.trailer == nil {
			f.trailer = trailer
		}
		prev, ok := trailer["Prev"]
		if !ok {
			return nil
		}
		n, ok := prev.(float64)
		if !ok {
			return parseErr("trailer /Prev is not a number")
		}
		offset = int64(n)
	}
}

func (f *file) readXrefSection(offset int64) (dict, error) {
	if offset < 0 || offset >= int64(len(f.data)) {
		return nil, parseErr("xref offset %d out of range", offset)
	}
	l := &lexer{data: f.data, pos: int(offset)}
	l.skipSpace()
	if kw := l.keyword(); kw != "xref" {
		// A cross-reference stream starts with "N G obj". Those require
		// stream decoding this reader deliberately does not do.
		return nil, parseErr("unsupported cross-reference format at offset %d", offset)
	}

	for {
		l.skipSpace()
		if bytes.HasPrefix(l.data[l.pos:], []byte("trailer")) {
			if err := l.expect("trailer"); err != nil {
				return nil, err
			}
			obj, err := l.parseObject()
			if err != nil {
				return nil, err
			}
			trailer, ok := obj.(dict)
			if !ok {
				return nil, parseErr("trailer is not a dictionary")
			}
			return trailer, nil
		}

		start, err := l.parseNumber()
		if err != nil {
			return nil, parseErr("bad xref subsection header: %v", err)
		}
		l.skipSpace()
		count, err := l.parseNumber()
		if err != nil {
			return nil, parseErr("bad xref subsection header: %v", err)
		}
		for i := 0; i < int(count); i++ {
			l.skipSpace()
			if l.pos+18 > len(l.data) {
				return nil, parseErr("truncated xref entry")
			}
			entry := string(l.data[l.pos : l.pos+18])
			l.pos += 18
			objOff, err := strconv.ParseInt(entry[0:10], 10, 64)
			if err != nil {
				return nil, parseErr("bad xref entry %q", entry)
			}
			kind := entry[17]
			num := int(start) + i
			if kind == 'n' {
				if _, exists := f.xref[num]; !exists {
					f.xref[num] = objOff
				}
			}
		}
	}
}

// resolve follows indirect references until a direct object remains.
func (f *file) resolve(obj object) (object, error) {
	for depth := 0; depth < 32; depth++ {
		r, ok := obj.(ref)
		if !ok {
			return obj, nil
		}
		var err error
		obj, err = f.object(r.num)
		if err != nil {
			return nil, err
		}
	}
	return nil, parseErr("reference chain too deep")
}

func (f *file) resolveDict(obj object) (dict, error) {
	v, err := f.resolve(obj)
	if err != nil {
		return nil, err
	}
	d, ok := v.(dict)
	if !ok {
		return nil, parseErr("expected dictionary, found %T", v)
	}
	return d, nil
}

func (f *file) resolveArray(obj object) (array, error) {
	v, err := f.resolve(obj)
	if err != nil {
		return nil, err
	}
	a, ok := v.(array)
	if !ok {
		return nil, parseErr("expected array, found %T", v)
	}
	return a, nil
}

// object loads and caches the indirect object with the given number.
func (f *file) object(num int) (object, error) {
	if obj, ok := f.cache[num]; ok {
		return obj, nil
	}
	off, ok := f.xref[num]
	if !ok {
		return nil, parseErr("object %d not in cross-reference table", num)
	}
	if off < 0 || off >= int64(len(f.data)) {
		return nil, parseErr("object %d offset out of range", num)
	}
	l := &lexer{data: f.data, pos: int(off)}
	l.skipSpace()
	if _, err := l.parseNumber(); err != nil {
		return nil, parseErr("object %d: bad header: %v", num, err)
	}
	l.skipSpace()
	if _, err := l.parseNumber(); err != nil {
		return nil, parseErr("object %d: bad header: %v", num, err)
	}
	if err := l.expect("obj"); err != nil {
		return nil, err
	}
	obj, err := l.parseObject()
	if err != nil {
		return nil, parseErr("object %d: %v", num, err)
	}
	f.cache[num] = obj
	return obj, nil
}

// Page-tree attributes widgets and pages inherit from their parents.
var inheritable = []name{"MediaBox"}

func (f *file) walkPages(doc *Document, node dict, inherited dict, depth int) error {
	if depth > 64 {
		return parseErr("page tree too deep")
	}
	attrs := make(dict, len(inherited)+1)
	for k, v := range inherited {
		attrs[k] = v
	}
	for _, k := range inheritable {
		if v, ok := node[k]; ok {
			attrs[k] = v
		}
	}

	switch node["Type"] {
	case name("Pages"):
		kids, err := f.resolveArray(node["Kids"])
		if err != nil {
			return parseErr("page tree node has no kids: %v", err)
		}
		for _, kid := range kids {
			kd, err := f.resolveDict(kid)
			if err != nil {
				return err
			}
			if err := f.walkPages(doc, kd, attrs, depth+1); err != nil {
				return err
			}
		}
		return nil
	case name("Page"):
		box, err := f.rect(attrs["MediaBox"])
		if err != nil {
			return parseErr("page %d has no media box: %v", len(doc.pages), err)
		}
		pageIndex := len(doc.pages)
		doc.pages = append(doc.pages, Page{Width: box.Width(), Height: box.Height()})
		return f.collectWidgets(doc, node, pageIndex)
	default:
		return parseErr("unexpected page tree node type %v", node["Type"])
	}
}

// collectWidgets records every widget annotation on the page under its
// terminal field key.
func (f *file) collectWidgets(doc *Document, page dict, pageIndex int) error {
	raw, ok := page["Annots"]
	if !ok {
		return nil
	}
	annots, err := f.resolveArray(raw)
	if err != nil {
		return parseErr("page %d has malformed annotations: %v", pageIndex, err)
	}
	for _, a := range annots {
		annot, err := f.resolveDict(a)
		if err != nil {
			return err
		}
		if annot["Subtype"] != name("Widget") {
			continue
		}
		key, err := f.fieldKey(annot)
		if err != nil {
			return err
		}
		if key == "" {
			continue // widget outside any named field
		}
		rect, err := f.rect(annot["Rect"])
		if err != nil {
			return parseErr("field %q has a malformed rect: %v", key, err)
		}
		doc.fields[key] = append(doc.fields[key], Placement{Page: pageIndex, Rect: rect})
	}
	return nil
}

// fieldKey resolves a widget's field key: the terminal component of its
// fully-qualified name. Merged field/widget dictionaries carry /T directly;
// kid widgets inherit it from the nearest /Parent with a /T.
func (f *file) fieldKey(annot dict) (string, error) {
	node := annot
	for depth := 0; depth < 32; depth++ {
		if t, ok := node["T"]; ok {
			v, err := f.resolve(t)
			if err != nil {
				return "", err
			}
			s, ok := v.(string)
			if !ok {
				return "", parseErr("field name is not a string")
			}
			return terminalComponent(s), nil
		}
		parent, ok := node["Parent"]
		if !ok {
			return "", nil
		}
		var err error
		node, err = f.resolveDict(parent)
		if err != nil {
			return "", err
		}
	}
	return "", parseErr("field parent chain too deep")
}

// terminalComponent strips any qualification from a field name, so authored
// field maps can use the short key regardless of how the form nests fields.
func terminalComponent(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func (f *file) rect(obj object) (Rect, error) {
	arr, err := f.resolveArray(obj)
	if err != nil {
		return Rect{}, err
	}
	if len(arr) != 4 {
		return Rect{}, parseErr("rectangle has %d elements", len(arr))
	}
	var v [4]float64
	for i, e := range arr {
		r, err := f.resolve(e)
		if err != nil {
			return Rect{}, err
		}
		n, ok := r.(float64)
		if !ok {
			return Rect{}, parseErr("rectangle element %d is not a number", i)
		}
		v[i] = n
	}
	rect := Rect{LLX: v[0], LLY: v[1], URX: v[2], URY: v[3]}
	if rect.LLX > rect.URX {
		rect.LLX, rect.URX = rect.URX, rect.LLX
	}
	if rect.LLY > rect.URY {
		rect.LLY, rect.URY = rect.URY, rect.LLY
	}
	return rect, nil
}
