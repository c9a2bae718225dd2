package script

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Encode validates req and serializes it into host script text.
// It is the only function that turns request values into script tokens.
func Encode(req Request) (string, error) {
	if err := req.normalize(); err != nil {
		return "", err
	}
	e := &encoder{op: req.Op()}
	e.raw("return host.")
	e.raw(req.Op())
	e.raw("(")
	req.encode(e)
	e.raw(")")
	if e.err != nil {
		return "", e.err
	}
	return e.b.String(), nil
}

// encoder writes Lua expressions. The first error sticks; later writes are
// ignored.
type encoder struct {
	op  string
	b   strings.Builder
	err error
}

func (e *encoder) raw(s string) {
	if e.err == nil {
		e.b.WriteString(s)
	}
}

func (e *encoder) fail(field string, err error) {
	if e.err == nil {
		e.err = &ValidationError{Op: e.op, Field: field, Err: err}
	}
}

func (e *encoder) num(field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.fail(field, fmt.Errorf("%w: %v", ErrNonFinite, v))
		return
	}
	if v == 0 {
		v = 0 // normalize negative zero
	}
	e.raw(strconv.FormatFloat(v, 'g', -1, 64))
}

func (e *encoder) int(v int) {
	e.raw(strconv.Itoa(v))
}

func (e *encoder) bool(v bool) {
	e.raw(strconv.FormatBool(v))
}

func (e *encoder) str(s string) {
	e.raw(luaQuote(s))
}

func (e *encoder) sep() {
	e.raw(", ")
}

// field writes "name=" inside a table constructor.
func (e *encoder) field(name string) {
	e.raw(name)
	e.raw("=")
}

func (e *encoder) vec(field string, vs ...float64) {
	e.raw("{")
	for i, v := range vs {
		if i > 0 {
			e.sep()
		}
		e.num(field, v)
	}
	e.raw("}")
}

// value writes a scalar command argument.
func (e *encoder) value(field string, v any) {
	switch x := v.(type) {
	case string:
		e.str(x)
	case bool:
		e.bool(x)
	case int:
		e.int(x)
	case int64:
		e.raw(strconv.FormatInt(x, 10))
	case float64:
		e.num(field, x)
	case float32:
		e.num(field, float64(x))
	default:
		e.fail(field, fmt.Errorf("unsupported argument type %T", v))
	}
}

// dict writes a table with sorted keys so that output is deterministic.
func (e *encoder) dict(args map[string]any) {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.raw("{")
	for i, k := range keys {
		if !validName(k) {
			e.fail(k, ErrInvalidName)
			return
		}
		if i > 0 {
			e.sep()
		}
		e.field(k)
		e.value(k, args[k])
	}
	e.raw("}")
}

// luaQuote returns s as a double-quoted Lua string literal. Control bytes are
// written as decimal escapes so the literal is valid in any Lua 5.1 parser.
func luaQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03d`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// validName reports whether s is a lower-case dotted identifier such as
// "preset.save" or "font_size".
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '_' || c == '.'):
		default:
			return false
		}
	}
	return true
}
