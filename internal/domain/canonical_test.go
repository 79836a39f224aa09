package domain

import (
	"reflect"
	"testing"
)

func TestCanonicalizeDropsEmptyEntries(t *testing.T) {
	input := map[string]any{
		"title":    "Intro",
		"subtitle": "",
		"meta": map[string]any{
			"author": nil,
			"tags":   []any{},
		},
		"body": map[string]any{
			"format": "plain",
		},
	}

	result, ok := Canonicalize(input).(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %T", Canonicalize(input))
	}

	expected := map[string]any{
		"title": "Intro",
		"body":  map[string]any{"format": "plain"},
	}
	if !reflect.DeepEqual(result, expected) {
		t.Fatalf("unexpected canonical form: %#v", result)
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []any{
		nil,
		"text",
		float64(3),
		map[string]any{},
		[]any{"a", ""},
		map[string]any{
			"a": map[string]any{"b": "", "c": []any{map[string]any{"d": nil}}},
			"e": []any{float64(1), "x"},
			"f": "kept",
		},
	}

	for _, input := range inputs {
		once := Canonicalize(input)
		twice := Canonicalize(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("canonicalize not idempotent for %#v: first %#v, second %#v", input, once, twice)
		}
	}
}

func TestCanonicalizePassesScalarsThrough(t *testing.T) {
	if got := Canonicalize("value"); got != "value" {
		t.Fatalf("expected scalar passthrough, got %#v", got)
	}
	if got := Canonicalize(float64(2.5)); got != float64(2.5) {
		t.Fatalf("expected numeric passthrough, got %#v", got)
	}
}

func TestCanonicalJSONStableAcrossKeyOrder(t *testing.T) {
	// Equal trees must encode byte-identically; encoding/json sorts keys.
	left := map[string]any{"b": float64(1), "a": map[string]any{"y": "2", "x": "1"}}
	right := map[string]any{"a": map[string]any{"x": "1", "y": "2"}, "b": float64(1)}

	if CanonicalJSON(left) != CanonicalJSON(right) {
		t.Fatalf("canonical JSON differs: %s vs %s", CanonicalJSON(left), CanonicalJSON(right))
	}

	expected := `{"a":{"x":"1","y":"2"},"b":1}`
	if got := CanonicalJSON(left); got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}

func TestCanonicalJSONDropsEmptiesBeforeEncoding(t *testing.T) {
	value := map[string]any{"kept": "x", "blank": "", "nested": map[string]any{"only": nil}}
	if got := CanonicalJSON(value); got != `{"kept":"x"}` {
		t.Fatalf("unexpected encoding: %s", got)
	}
}
