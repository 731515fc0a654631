package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// The document tree produced by parseDocument uses these variants:
//
//	Object      — ordered object members
//	[]any       — array
//	string      — string
//	json.Number — number, kept verbatim so re-encoding never reformats it
//	bool, nil   — the remaining scalars
//
// encoding/json maps cannot preserve member order, and the stored
// configuration format is order-sensitive, so objects are decoded from the
// token stream by hand. Leaf escaping still delegates to encoding/json.

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object with its members in document order.
type Object []Member

// isStructured reports whether v is an object or an array.
func isStructured(v any) bool {
	switch v.(type) {
	case Object, []any:
		return true
	default:
		return false
	}
}

// parseDocument parses text into a document tree, rejecting trailing content.
func parseDocument(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after document")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj = append(obj, Member{Key: key, Value: val})
			}
			// consume '}'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			// consume ']'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string, json.Number, bool, nil:
		return t, nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

// encodeCompact renders a document tree on a single line.
func encodeCompact(v any) string {
	var b strings.Builder
	encodeValue(&b, v, "", 0)
	return b.String()
}

// encodePretty renders a document tree with two-space indentation.
func encodePretty(v any) string {
	var b strings.Builder
	encodeValue(&b, v, "  ", 0)
	return b.String()
}

func encodeValue(b *strings.Builder, v any, indent string, depth int) {
	switch t := v.(type) {
	case Object:
		if len(t) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNewline(b, indent, depth+1)
			b.WriteString(marshalString(m.Key))
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			encodeValue(b, m.Value, indent, depth+1)
		}
		writeNewline(b, indent, depth)
		b.WriteByte('}')
	case []any:
		if len(t) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNewline(b, indent, depth+1)
			encodeValue(b, el, indent, depth+1)
		}
		writeNewline(b, indent, depth)
		b.WriteByte(']')
	case string:
		b.WriteString(marshalString(t))
	case json.Number:
		b.WriteString(t.String())
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case nil:
		b.WriteString("null")
	}
}

func writeNewline(b *strings.Builder, indent string, depth int) {
	if indent == "" {
		return
	}
	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString(indent)
	}
}

// marshalString encodes s as a JSON string literal without HTML escaping,
// so re-stringified payloads stay readable.
func marshalString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode on a string never fails.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
