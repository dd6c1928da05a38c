package decode

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestValueForeignLiteralFixture(t *testing.T) {
	got := Value("{'a': True, 'b': None}", nil)
	want := map[string]any{"a": true, "b": nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Value() = %#v, want %#v", got, want)
	}
}

func TestValueRoundTrip(t *testing.T) {
	values := []any{
		map[string]any{},
		map[string]any{"lbc": true, "vinted": false, "ebay": nil},
		map[string]any{"nested": map[string]any{"radius": 10.0, "name": "Lyon"}},
		[]any{"a", 1.0, true, nil},
		[]any{map[string]any{"type": "city", "value": "Paris", "radius": 5.0}},
	}
	for _, v := range values {
		encoded, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %#v: %v", v, err)
		}
		got := Value(string(encoded), nil)
		if !reflect.DeepEqual(got, v) {
			t.Fatalf("round trip of %s = %#v, want %#v", encoded, got, v)
		}
	}
}

func TestValueStructuredPassThrough(t *testing.T) {
	in := map[string]any{"x": 1}
	got := Value(in, nil)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("structured input changed: %#v", got)
	}
}

func TestValueDefaults(t *testing.T) {
	cases := []struct {
		name string
		in   any
		def  any
		want any
	}{
		{name: "nil", in: nil, def: nil, want: map[string]any{}},
		{name: "empty string", in: "", def: nil, want: map[string]any{}},
		{name: "blank string", in: "   ", def: []any{}, want: []any{}},
		{name: "garbage", in: "{not: json", def: []any{}, want: []any{}},
		{name: "garbage default object", in: "<<>>", def: nil, want: map[string]any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Value(tc.in, tc.def)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Value(%#v) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRewriteKeepsWordsContainingLiterals(t *testing.T) {
	got := rewrite("{'note': 'Nonexistent', 'ok': False}")
	want := `{"note": "Nonexistent", "ok": false}`
	if got != want {
		t.Fatalf("rewrite() = %q, want %q", got, want)
	}
}

func TestFieldAcceptsAllShapes(t *testing.T) {
	type location struct {
		Type   string `json:"type"`
		Value  string `json:"value"`
		Radius int    `json:"radius"`
	}
	cases := []struct {
		name string
		raw  string
		ok   bool
		want []location
	}{
		{name: "array", raw: `[{"type":"city","value":"Lyon","radius":10}]`, ok: true, want: []location{{"city", "Lyon", 10}}},
		{name: "json string", raw: `"[{\"type\":\"region\",\"value\":\"Bretagne\"}]"`, ok: true, want: []location{{Type: "region", Value: "Bretagne"}}},
		{name: "foreign string", raw: `"[{'type': 'department', 'value': '69', 'radius': 0}]"`, ok: true, want: []location{{Type: "department", Value: "69"}}},
		{name: "null", raw: `null`, ok: false},
		{name: "empty string", raw: `""`, ok: false},
		{name: "broken", raw: `"[{'type': "`, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []location
			ok := Field(json.RawMessage(tc.raw), &got)
			if ok != tc.ok {
				t.Fatalf("Field(%s) ok = %v, want %v", tc.raw, ok, tc.ok)
			}
			if tc.ok && !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Field(%s) = %#v, want %#v", tc.raw, got, tc.want)
			}
		})
	}
}
