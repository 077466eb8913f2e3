package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type encoder struct {
	sb      strings.Builder
	indent  string
	itemSep string
	keySep  string
}

// Compact renders v without insignificant whitespace.
func Compact(v any) string {
	e := &encoder{itemSep: ",", keySep: ":"}
	e.write(v, 0)

	return e.sb.String()
}

// Dumps renders v with ", " and ": " separators, the spaced form stored in
// request bodies.
func Dumps(v any) string {
	e := &encoder{itemSep: ", ", keySep: ": "}
	e.write(v, 0)

	return e.sb.String()
}

// Indent renders v pretty-printed with two spaces per level.
func Indent(v any) string {
	e := &encoder{indent: "  ", itemSep: ",", keySep: ": "}
	e.write(v, 0)

	return e.sb.String()
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}

	e.sb.WriteByte('\n')
	e.sb.WriteString(strings.Repeat(e.indent, depth))
}

func (e *encoder) write(v any, depth int) {
	switch val := v.(type) {
	case nil:
		e.sb.WriteString("null")
	case bool:
		e.sb.WriteString(strconv.FormatBool(val))
	case json.Number:
		e.sb.WriteString(val.String())
	case string:
		e.sb.WriteString(quote(val))
	case int:
		e.sb.WriteString(strconv.Itoa(val))
	case int64:
		e.sb.WriteString(strconv.FormatInt(val, 10))
	case float64:
		e.sb.WriteString(formatFloat(val))
	case Object:
		e.writeObject(val, depth)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		obj := make(Object, 0, len(keys))
		for _, k := range keys {
			obj = append(obj, Member{Key: k, Value: val[k]})
		}
		e.writeObject(obj, depth)
	case []any:
		e.writeArray(val, depth)
	case []string:
		arr := make([]any, 0, len(val))
		for _, s := range val {
			arr = append(arr, s)
		}
		e.writeArray(arr, depth)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			e.sb.WriteString(quote(fmt.Sprint(val)))
			return
		}
		e.sb.Write(b)
	}
}

func (e *encoder) writeObject(obj Object, depth int) {
	if len(obj) == 0 {
		e.sb.WriteString("{}")
		return
	}

	e.sb.WriteByte('{')
	for i, m := range obj {
		if i > 0 {
			e.sb.WriteString(e.itemSep)
		}
		e.newline(depth + 1)
		e.sb.WriteString(quote(m.Key))
		e.sb.WriteString(e.keySep)
		e.write(m.Value, depth+1)
	}
	e.newline(depth)
	e.sb.WriteByte('}')
}

func (e *encoder) writeArray(arr []any, depth int) {
	if len(arr) == 0 {
		e.sb.WriteString("[]")
		return
	}

	e.sb.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			e.sb.WriteString(e.itemSep)
		}
		e.newline(depth + 1)
		e.write(item, depth+1)
	}
	e.newline(depth)
	e.sb.WriteByte(']')
}

func quote(s string) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}
