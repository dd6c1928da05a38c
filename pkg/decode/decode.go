// Package decode reads metadata fields that should hold structured JSON but
// were sometimes persisted using another runtime's literal syntax: single
// quoted strings and True/False/None.
package decode

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var literals = regexp.MustCompile(`\b(True|False|None)\b`)

var canonical = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
}

// Value returns in unchanged when it is already structured (anything but a
// string). Strings are parsed as JSON, then retried once after the literal
// rewrite. Empty input and unparsable input both yield def. A nil def means an
// empty object.
func Value(in any, def any) any {
	if def == nil {
		def = map[string]any{}
	}
	if in == nil {
		return def
	}
	s, ok := in.(string)
	if !ok {
		return in
	}
	if strings.TrimSpace(s) == "" {
		return def
	}

	var out any
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out
	}
	if err := json.Unmarshal([]byte(rewrite(s)), &out); err != nil {
		slog.Error("decode: unrecoverable metadata value", "input", s, "error", err)
		return def
	}
	return out
}

// Field unmarshals raw into out. raw may be a JSON object or array, or a JSON
// string wrapping either (strict or foreign syntax). It reports whether out
// was populated; on failure out is left as the caller initialised it.
func Field(raw json.RawMessage, out any) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false
	}
	if raw[0] != '"' {
		if err := json.Unmarshal(raw, out); err != nil {
			slog.Error("decode: structured field", "error", err)
			return false
		}
		return true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		slog.Error("decode: string field", "error", err)
		return false
	}
	if strings.TrimSpace(s) == "" {
		return false
	}
	if err := json.Unmarshal([]byte(s), out); err == nil {
		return true
	}
	if err := json.Unmarshal([]byte(rewrite(s)), out); err != nil {
		slog.Error("decode: unrecoverable metadata field", "input", s, "error", err)
		return false
	}
	return true
}

// rewrite converts the foreign literal syntax into JSON. It is intentionally
// naive about quotes: every single quote becomes a double quote.
func rewrite(s string) string {
	s = strings.ReplaceAll(s, "'", `"`)
	return literals.ReplaceAllStringFunc(s, func(word string) string {
		return canonical[word]
	})
}
