package pdf

import (
	"strconv"

	"github.com/formpath/formpath/pkg/errors"
)

// Object model for the subset of PDF syntax the reader understands. Streams
// are never materialized: the reader only consumes the dictionaries that
// describe pages and form fields.

type name string

type dict map[name]object

type array []object

type ref struct {
	num int
	gen int
}

// object is one of: nil, bool, float64, string, name, dict, array, ref.
type object any

// lexer walks raw PDF bytes and parses objects.
type lexer struct {
	data []byte
	pos  int
}

func parseErr(format string, args ...any) error {
	return errors.New(errors.ErrCodeParse, format, args...)
}

func isWhitespace(c byte) bool {
	switch c {
	case 0x00, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.data)
}

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.data[l.pos]
}

// skipSpace advances past whitespace and comments.
func (l *lexer) skipSpace() {
	for !l.eof() {
		c := l.data[l.pos]
		if isWhitespace(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for !l.eof() && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// keyword reads a bare token such as obj, endobj, R, true.
func (l *lexer) keyword() string {
	start := l.pos
	for !l.eof() && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// expect consumes the given keyword or fails.
func (l *lexer) expect(kw string) error {
	l.skipSpace()
	if got := l.keyword(); got != kw {
		return parseErr("expected %q at offset %d, found %q", kw, l.pos, got)
	}
	return nil
}

// parseObject parses the next object.
func (l *lexer) parseObject() (object, error) {
	l.skipSpace()
	if l.eof() {
		return nil, parseErr("unexpected end of input")
	}
	switch c := l.peek(); {
	case c == '/':
		return l.parseName()
	case c == '(':
		return l.parseString()
	case c == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			return l.parseDict()
		}
		return l.parseHexString()
	case c == '[':
		return l.parseArray()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return l.parseNumberOrRef()
	default:
		switch kw := l.keyword(); kw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		default:
			return nil, parseErr("unexpected token %q at offset %d", kw, l.pos)
		}
	}
}

func (l *lexer) parseName() (name, error) {
	l.pos++ // consume /
	var out []byte
	for !l.eof() {
		c := l.data[l.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && l.pos+2 < len(l.data) {
			hi := hexVal(l.data[l.pos+1])
			lo := hexVal(l.data[l.pos+2])
			if hi >= 0 && lo >= 0 {
				out = append(out, byte(hi<<4|lo))
				l.pos += 3
				continue
			}
		}
		out = append(out, c)
		l.pos++
	}
	return name(out), nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func (l *lexer) parseString() (string, error) {
	l.pos++ // consume (
	var out []byte
	depth := 1
	for !l.eof() {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.eof() {
				return "", parseErr("unterminated string escape")
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\n':
				// line continuation
			case '\r':
				if !l.eof() && l.peek() == '\n' {
					l.pos++
				}
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && !l.eof(); i++ {
						d := l.peek()
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return string(out), nil
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return "", parseErr("unterminated string")
}

func (l *lexer) parseHexString() (string, error) {
	l.pos++ // consume <
	var out []byte
	var hi = -1
	for !l.eof() {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			if hi >= 0 {
				out = append(out, byte(hi<<4))
			}
			return string(out), nil
		}
		if isWhitespace(c) {
			continue
		}
		v := hexVal(c)
		if v < 0 {
			return "", parseErr("bad hex string character %q", c)
		}
		if hi < 0 {
			hi = v
		} else {
			out = append(out, byte(hi<<4|v))
			hi = -1
		}
	}
	return "", parseErr("unterminated hex string")
}

func (l *lexer) parseArray() (array, error) {
	l.pos++ // consume [
	var out array
	for {
		l.skipSpace()
		if l.eof() {
			return nil, parseErr("unterminated array")
		}
		if l.peek() == ']' {
			l.pos++
			return out, nil
		}
		obj, err := l.parseObject()
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
}

func (l *lexer) parseDict() (dict, error) {
	l.pos += 2 // consume <<
	out := make(dict)
	for {
		l.skipSpace()
		if l.eof() {
			return nil, parseErr("unterminated dictionary")
		}
		if l.peek() == '>' {
			if l.pos+1 >= len(l.data) || l.data[l.pos+1] != '>' {
				return nil, parseErr("malformed dictionary close at offset %d", l.pos)
			}
			l.pos += 2
			return out, nil
		}
		if l.peek() != '/' {
			return nil, parseErr("dictionary key is not a name at offset %d", l.pos)
		}
		key, err := l.parseName()
		if err != nil {
			return nil, err
		}
		val, err := l.parseObject()
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
}

// parseNumberOrRef parses a number, upgrading "N G R" to a reference.
func (l *lexer) parseNumberOrRef() (object, error) {
	n, err := l.parseNumber()
	if err != nil {
		return nil, err
	}
	// An indirect reference is two non-negative integers followed by R.
	if n >= 0 && n == float64(int(n)) {
		save := l.pos
		l.skipSpace()
		if !l.eof() && l.peek() >= '0' && l.peek() <= '9' {
			g, err := l.parseNumber()
			if err == nil && g >= 0 && g == float64(int(g)) {
				l.skipSpace()
				kwStart := l.pos
				if l.keyword() == "R" {
					return ref{num: int(n), gen: int(g)}, nil
				}
				l.pos = kwStart
			}
		}
		l.pos = save
	}
	return n, nil
}

func (l *lexer) parseNumber() (float64, error) {
	start := l.pos
	if !l.eof() && (l.peek() == '+' || l.peek() == '-') {
		l.pos++
	}
	for !l.eof() {
		c := l.peek()
		if (c >= '0' && c <= '9') || c == '.' {
			l.pos++
			continue
		}
		break
	}
	tok := string(l.data[start:l.pos])
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, parseErr("bad number %q at offset %d", tok, start)
	}
	return v, nil
}
