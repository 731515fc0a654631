package jsonutil_test

import (
	"encoding/json"
	"testing"

	"confshare/internal/core/jsonutil"
)

// ==============================================================================
// 1. Normalize
// ==============================================================================

func TestNormalize_ExpandsStringEncodedJSON(t *testing.T) {
	input := `{"key":"[{\"nested\":\"value\"}]"}`

	got, ok := jsonutil.NormalizeCompact(input)
	if !ok {
		t.Fatal("NormalizeCompact reported no transform")
	}
	if want := `{"key":[{"nested":"value"}]}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNormalize_PrettyOutput(t *testing.T) {
	input := `{"key":"[{\"nested\":\"value\"}]"}`
	want := `{
  "key": [
    {
      "nested": "value"
    }
  ]
}`

	got, ok := jsonutil.Normalize(input)
	if !ok {
		t.Fatal("Normalize reported no transform")
	}
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestNormalize_DeeplyNested(t *testing.T) {
	// Assemble three levels of stringified nesting the way a client that
	// re-serializes per layer would.
	inner := `{"deep":"value"}`
	mid, err := json.Marshal(inner)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := json.Marshal(`{"mid":` + string(mid) + `}`)
	if err != nil {
		t.Fatal(err)
	}
	input := `{"top":` + string(outer) + `}`

	got, ok := jsonutil.NormalizeCompact(input)
	if !ok {
		t.Fatal("NormalizeCompact reported no transform")
	}
	if want := `{"top":{"mid":{"deep":"value"}}}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNormalize_UnwrapsQuotedDocument(t *testing.T) {
	wrapped, err := json.Marshal(`{"a":1}`)
	if err != nil {
		t.Fatal(err)
	}

	got, ok := jsonutil.NormalizeCompact(string(wrapped))
	if !ok {
		t.Fatal("NormalizeCompact reported no transform")
	}
	if want := `{"a":1}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNormalize_AlreadyNormalized(t *testing.T) {
	input := `{"a":1,"b":[1,2],"c":null}`

	got, ok := jsonutil.NormalizeCompact(input)
	if !ok {
		t.Fatal("NormalizeCompact reported no transform")
	}
	if got != input {
		t.Errorf("already-normalized input changed: %s", got)
	}
}

func TestNormalize_PreservesOrderAndNumbers(t *testing.T) {
	input := `{"z":1.50,"a":2e3,"big":10000000000000001}`

	got, ok := jsonutil.NormalizeCompact(input)
	if !ok {
		t.Fatal("NormalizeCompact reported no transform")
	}
	if got != input {
		t.Errorf("member order or number formatting changed: %s", got)
	}
}

func TestNormalize_LeavesUnparsableStringsAlone(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"brace-shaped but invalid", `{"k":"{bad}"}`},
		{"unterminated brace", `{"note":"{not json"}`},
		{"unterminated bracket", `{"arr":"[1,2"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := jsonutil.NormalizeCompact(tc.input)
			if !ok {
				t.Fatal("NormalizeCompact reported no transform")
			}
			if got != tc.input {
				t.Errorf("string member was mangled: %s", got)
			}
		})
	}
}

func TestNormalize_SoftFallback(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain text", "not json at all"},
		{"truncated object", `{"a":`},
		{"trailing garbage", `{"a":1} extra`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := jsonutil.Normalize(tc.input)
			if ok {
				t.Error("expected no transform")
			}
			if got != tc.input {
				t.Errorf("fallback changed the input: %q", got)
			}
		})
	}
}

// ==============================================================================
// 2. Denormalize
// ==============================================================================

func TestDenormalize_StringifiesRootMembers(t *testing.T) {
	input := `{"key":[{"nested":"value"}],"plain":42}`

	got, ok := jsonutil.Denormalize(input, false)
	if !ok {
		t.Fatal("Denormalize reported no transform")
	}
	if want := `{"key":"[{\"nested\":\"value\"}]","plain":42}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDenormalize_ValueFieldConvention(t *testing.T) {
	input := `{"configurables":[{"name":"x","value":{"a":1},"other":{"b":2}}]}`

	got, ok := jsonutil.Denormalize(input, false)
	if !ok {
		t.Fatal("Denormalize reported no transform")
	}

	// Only "value" members are stringified below the root; "other" stays
	// structured inside the stringified root member.
	want := `{"configurables":"[{\"name\":\"x\",\"value\":\"{\\\"a\\\":1}\",\"other\":{\"b\":2}}]"}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDenormalize_WrapInQuotes(t *testing.T) {
	input := `{"key":[1,2]}`

	got, ok := jsonutil.Denormalize(input, true)
	if !ok {
		t.Fatal("Denormalize reported no transform")
	}

	var unwrapped string
	if err := json.Unmarshal([]byte(got), &unwrapped); err != nil {
		t.Fatalf("output is not a JSON string literal: %v", err)
	}
	if want := `{"key":"[1,2]"}`; unwrapped != want {
		t.Errorf("got %s, want %s", unwrapped, want)
	}
}

func TestDenormalize_NonObjectRootPassesThrough(t *testing.T) {
	input := `[{"a":1},{"b":2}]`

	got, ok := jsonutil.Denormalize(input, false)
	if !ok {
		t.Fatal("Denormalize reported no transform")
	}
	if got != input {
		t.Errorf("array root changed: %s", got)
	}
}

func TestDenormalize_SoftFallback(t *testing.T) {
	for _, input := range []string{"", "not json", `{"a":`} {
		got, ok := jsonutil.Denormalize(input, true)
		if ok {
			t.Errorf("Denormalize(%q) reported a transform", input)
		}
		if got != input {
			t.Errorf("fallback changed the input: %q", got)
		}
	}
}

func TestDenormalizeWith_CustomPredicate(t *testing.T) {
	input := `{"root":{"payload":{"a":1},"value":{"b":2}}}`

	got, ok := jsonutil.DenormalizeWith(input, false, func(key string, value any) bool {
		return key == "payload"
	})
	if !ok {
		t.Fatal("DenormalizeWith reported no transform")
	}
	if want := `{"root":"{\"payload\":\"{\\\"a\\\":1}\",\"value\":{\"b\":2}}"}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// ==============================================================================
// 3. Round Trips
// ==============================================================================

func TestNormalizeDenormalize_RoundTrip(t *testing.T) {
	stored := `{"configurables":"[{\"name\":\"x\",\"value\":\"{\\\"a\\\":1}\"}]","version":3}`

	normalized, ok := jsonutil.NormalizeCompact(stored)
	if !ok {
		t.Fatal("NormalizeCompact reported no transform")
	}
	if want := `{"configurables":[{"name":"x","value":{"a":1}}],"version":3}`; normalized != want {
		t.Errorf("normalize: got %s, want %s", normalized, want)
	}

	restored, ok := jsonutil.Denormalize(normalized, false)
	if !ok {
		t.Fatal("Denormalize reported no transform")
	}
	if restored != stored {
		t.Errorf("round trip diverged:\n got %s\nwant %s", restored, stored)
	}
}

// ==============================================================================
// 4. Validation
// ==============================================================================

func TestIsValidJSON(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"object", `{"a":1}`, true},
		{"array", `[1,2,3]`, true},
		{"string literal", `"hello"`, true},
		{"number", `42`, true},
		{"empty", ``, false},
		{"plain text", `hello`, false},
		{"truncated", `{"a":`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := jsonutil.IsValidJSON(tc.text); got != tc.want {
				t.Errorf("IsValidJSON(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}
