package canon

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJCSCanonicalizeSortsKeys(t *testing.T) {
	j := NewJCS()

	var docA, docB interface{}
	if err := json.Unmarshal([]byte(`{"b":1,"a":2}`), &docA); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"a":2,"b":1}`), &docB); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	outA, err := j.Canonicalize(docA)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	outB, err := j.Canonicalize(docB)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if string(outA) != string(outB) {
		t.Errorf("expected member-order-independent output, got %q vs %q", outA, outB)
	}
	if string(outA) != `{"a":2,"b":1}` {
		t.Errorf("unexpected canonical form: %q", outA)
	}
}

func TestJCSCanonicalizeDeterministic(t *testing.T) {
	j := NewJCS()
	doc := map[string]interface{}{"z": 1, "a": []interface{}{1, 2, 3}, "m": "x"}

	first, err := j.Canonicalize(doc)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	second, err := j.Canonicalize(doc)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("expected deterministic output, got %q vs %q", first, second)
	}
}

func TestRDFCCanonicalizeIsMemberOrderIndependent(t *testing.T) {
	r := NewRDFC(nil)

	inline := map[string]interface{}{
		"@vocab": "https://example.com/vocab#",
	}
	docA := map[string]interface{}{
		"@context": inline,
		"@id":      "https://example.com/subjects/1",
		"name":     "Alice",
		"age":      float64(30),
	}
	docB := map[string]interface{}{
		"age":      float64(30),
		"@id":      "https://example.com/subjects/1",
		"@context": inline,
		"name":     "Alice",
	}

	outA, err := r.Canonicalize(docA)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	outB, err := r.Canonicalize(docB)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if string(outA) != string(outB) {
		t.Errorf("expected member-order-independent canonical N-Quads, got %q vs %q", outA, outB)
	}
	if !strings.Contains(string(outA), "<https://example.com/subjects/1>") {
		t.Errorf("expected canonical output to carry the subject IRI, got %q", outA)
	}
}

func TestRDFCCanonicalizeSkolemizedBlankNodesAreStable(t *testing.T) {
	r := NewRDFC(nil)

	doc := map[string]interface{}{
		"@context": map[string]interface{}{"@vocab": "https://example.com/vocab#"},
		"@id":      "https://example.com/subjects/1",
		"child": map[string]interface{}{
			"@id":   "urn:bnid:0",
			"label": "leaf",
		},
	}

	first, err := r.Canonicalize(doc)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	second, err := r.Canonicalize(doc)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("expected stable canonicalization of a named (skolemized) node, got %q vs %q", first, second)
	}
}
