// Package jsonutil reshapes configuration documents whose string fields are
// themselves JSON-encoded, possibly several levels deep.
//
// Normalize expands those string-encoded sub-documents into real structure for
// readable output; Denormalize is the reverse, re-stringifying structured
// values back into the storage convention. Neither function ever fails: on any
// parse error the input is returned unchanged, and the second return value
// reports whether a transform was applied.
package jsonutil

import (
	"encoding/json"
	"strings"
)

// StringifyPredicate decides, at nested levels, whether an object member
// should be re-stringified during denormalization.
type StringifyPredicate func(key string, value any) bool

// valueKeyPredicate is the stored format's convention: only members literally
// named "value" carry stringified JSON; other structured fields stay literal.
// Deliberately narrow; do not generalize it silently.
func valueKeyPredicate(key string, value any) bool {
	return key == "value" && isStructured(value)
}

// Normalize expands string-encoded JSON found anywhere in text, returning the
// result pretty-printed. If the whole input is a JSON string literal, it is
// unwrapped first. Returns the input unchanged (and false) when it cannot be
// parsed.
func Normalize(text string) (string, bool) {
	return normalize(text, encodePretty)
}

// NormalizeCompact is Normalize with single-line output.
func NormalizeCompact(text string) (string, bool) {
	return normalize(text, encodeCompact)
}

func normalize(text string, render func(any) string) (string, bool) {
	if text == "" {
		return text, false
	}

	doc := text
	// A payload wrapped in quotes is a JSON string literal holding the real
	// document; unescape it before parsing.
	if strings.HasPrefix(doc, `"`) && strings.HasSuffix(doc, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(doc), &inner); err != nil {
			return text, false
		}
		doc = inner
	}

	root, err := parseDocument(doc)
	if err != nil {
		return text, false
	}

	return render(normalizeValue(root)), true
}

// normalizeValue recursively inlines string nodes that parse as JSON. A string
// that fails to parse stays a string; siblings are unaffected.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case Object:
		out := make(Object, len(t))
		for i, m := range t {
			out[i] = Member{Key: m.Key, Value: normalizeValue(m.Value)}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = normalizeValue(el)
		}
		return out
	case string:
		if looksLikeJSON(t) {
			if parsed, err := parseDocument(t); err == nil {
				return normalizeValue(parsed)
			}
		}
		return t
	default:
		return v
	}
}

// Denormalize re-stringifies structured values back into the storage format:
// every structured member of the root object becomes a string field, and at
// deeper levels only members matching the default predicate do. With
// wrapInQuotes the whole result is serialized once more as a string literal.
// Returns the input unchanged (and false) when it cannot be parsed.
func Denormalize(text string, wrapInQuotes bool) (string, bool) {
	return DenormalizeWith(text, wrapInQuotes, valueKeyPredicate)
}

// DenormalizeWith is Denormalize with a caller-supplied predicate for the
// nested levels, for storage conventions other than the "value"-field one.
func DenormalizeWith(text string, wrapInQuotes bool, shouldStringify StringifyPredicate) (string, bool) {
	if text == "" {
		return text, false
	}

	root, err := parseDocument(text)
	if err != nil {
		return text, false
	}

	result := encodeCompact(denormalizeRoot(root, shouldStringify))
	if wrapInQuotes {
		result = marshalString(result)
	}
	return result, true
}

// denormalizeRoot stringifies every structured member of the root object.
// Non-object roots pass through untouched.
func denormalizeRoot(v any, shouldStringify StringifyPredicate) any {
	obj, ok := v.(Object)
	if !ok {
		return v
	}

	out := make(Object, len(obj))
	for i, m := range obj {
		if isStructured(m.Value) {
			out[i] = Member{Key: m.Key, Value: encodeCompact(denormalizeDeep(m.Value, shouldStringify))}
		} else {
			out[i] = m
		}
	}
	return out
}

// denormalizeDeep walks nested levels, stringifying only members the
// predicate selects.
func denormalizeDeep(v any, shouldStringify StringifyPredicate) any {
	switch t := v.(type) {
	case Object:
		out := make(Object, len(t))
		for i, m := range t {
			if shouldStringify(m.Key, m.Value) {
				out[i] = Member{Key: m.Key, Value: encodeCompact(denormalizeDeep(m.Value, shouldStringify))}
			} else {
				out[i] = Member{Key: m.Key, Value: denormalizeDeep(m.Value, shouldStringify)}
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = denormalizeDeep(el, shouldStringify)
		}
		return out
	default:
		return v
	}
}

// looksLikeJSON reports whether a string plausibly holds a JSON object or
// array: trimmed, it starts with {/[ and ends with the matching brace.
func looksLikeJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 {
		return false
	}
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}

// IsValidJSON reports whether text is a syntactically valid JSON document.
// Callers use it to distinguish "already fine" from "could not be improved"
// after a soft-fallback transform.
func IsValidJSON(text string) bool {
	if text == "" {
		return false
	}
	return json.Valid([]byte(text))
}
