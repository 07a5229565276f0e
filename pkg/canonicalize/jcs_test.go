package canonicalize

import (
	"encoding/json"
	"testing"
)

func TestJCS_Sorting(t *testing.T) {
	// Map with unsorted keys
	input := map[string]interface{}{
		"c": 3,
		"a": 1,
		"b": 2,
	}

	expected := `{"a":1,"b":2,"c":3}`

	b, err := JCS(input)
	if err != nil {
		t.Fatalf("JCS failed: %v", err)
	}

	if string(b) != expected {
		t.Errorf("Expected %s, got %s", expected, string(b))
	}
}

func TestJCS_RecursiveSorting(t *testing.T) {
	input := map[string]interface{}{
		"z": map[string]interface{}{
			"y": "foo",
			"x": "bar",
		},
		"a": 1,
	}

	expected := `{"a":1,"z":{"x":"bar","y":"foo"}}`

	b, err := JCS(input)
	if err != nil {
		t.Fatalf("JCS failed: %v", err)
	}

	if string(b) != expected {
		t.Errorf("Expected %s, got %s", expected, string(b))
	}
}

func TestJCS_NoHTMLEscaping(t *testing.T) {
	input := map[string]string{
		"html": "<script>alert('xss')</script> &",
	}

	// Standard encoding/json produces < escapes; RFC 8785 forbids them.
	expected := `{"html":"<script>alert('xss')</script> &"}`

	b, err := JCS(input)
	if err != nil {
		t.Fatalf("JCS failed: %v", err)
	}

	if string(b) != expected {
		t.Errorf("Expected %s, got %s", expected, string(b))
	}
}

func TestJCS_ArraysPreserveOrder(t *testing.T) {
	input := map[string]interface{}{
		"arr": []int{3, 1, 2},
	}

	b, err := JCS(input)
	if err != nil {
		t.Fatalf("JCS failed: %v", err)
	}

	expected := `{"arr":[3,1,2]}`
	if string(b) != expected {
		t.Errorf("Expected %s, got %s", expected, string(b))
	}
}

func TestJCS_NumberNormalization(t *testing.T) {
	// 1 and 1.0 are the same logical number and must canonicalize identically.
	a, err := JCS(json.RawMessage(`{"n":1}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := JCS(json.RawMessage(`{"n":1.0}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("1 and 1.0 canonicalized differently: %s vs %s", a, b)
	}
}

func TestJCS_NegativeZero(t *testing.T) {
	neg, err := JCS(json.RawMessage(`{"n":-0}`))
	if err != nil {
		t.Fatal(err)
	}
	pos, err := JCS(json.RawMessage(`{"n":0}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(neg) != string(pos) {
		t.Errorf("-0 and 0 canonicalized differently: %s vs %s", neg, pos)
	}
	if string(pos) != `{"n":0}` {
		t.Errorf("Expected {\"n\":0}, got %s", pos)
	}
}

func TestCanonicalHash_Stability(t *testing.T) {
	// Two inputs that are semantically identical but constructed differently
	v1 := map[string]interface{}{"a": 1, "b": 2}

	type S struct {
		B int `json:"b"`
		A int `json:"a"`
	}
	v2 := S{A: 1, B: 2}

	h1, err := CanonicalHash(v1)
	if err != nil {
		t.Fatal(err)
	}

	h2, err := CanonicalHash(v2)
	if err != nil {
		t.Fatal(err)
	}

	if h1 != h2 {
		t.Errorf("Hash mismatch for semantically identical inputs: %s != %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("Expected 64-char hex digest, got %d chars", len(h1))
	}
}

func TestCanonicalHash_Repeatable(t *testing.T) {
	v := map[string]interface{}{
		"accounts": []string{"cash", "revenue"},
		"version":  3,
	}

	h1, err := CanonicalHash(v)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := CanonicalHash(v)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("CanonicalHash not repeatable: %s != %s", h1, h2)
	}
}

func TestJCS_UnmarshalableValue(t *testing.T) {
	// Channels are not JSON-marshalable; this is a caller bug, not a verdict.
	if _, err := JCS(map[string]interface{}{"ch": make(chan int)}); err == nil {
		t.Error("expected error for unmarshalable value")
	}
}
