// Package parse recovers contact field sets from model replies that may be
// fenced, wrapped in prose, loosely quoted or truncated.
package parse

import (
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/contact"
	"github.com/sells-group/cardscan/internal/model"
)

// ErrUnparseable is returned when no field set can be recovered from a reply.
var ErrUnparseable = eris.New("parse: unparseable response")

// minFallbackFields is how many fields the per-field regex fallback must
// recover before its result is trusted.
const minFallbackFields = 2

var (
	fenceRe         = regexp.MustCompile("```[A-Za-z]*")
	minimalObjectRe = regexp.MustCompile(`\{[^{}]*\}`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	fieldRes        = buildFieldRes()
)

func buildFieldRes() map[model.Field]*regexp.Regexp {
	m := make(map[model.Field]*regexp.Regexp, len(model.Fields))
	for _, f := range model.Fields {
		m[f] = regexp.MustCompile(`(?i)"` + regexp.QuoteMeta(string(f)) + `"\s*:\s*"([^"]*)"`)
	}
	return m
}

// Contact extracts a single normalized field set from a model reply.
func Contact(text string) (model.FieldSet, error) {
	text = stripFences(text)

	candidates := []string{text}
	if sub := minimalObjectRe.FindString(text); sub != "" {
		candidates = append(candidates, sub)
	}
	if sub := outermost(text, '{', '}'); sub != "" {
		candidates = append(candidates, sub)
	}

	for _, c := range candidates {
		if fs, ok := decodeObject(c); ok {
			return fs, nil
		}
	}
	for _, c := range candidates {
		if fs, ok := decodeObject(repair(c)); ok {
			return fs, nil
		}
	}

	if fs, n := regexFields(text); n >= minFallbackFields {
		return fs, nil
	}
	return model.FieldSet{}, ErrUnparseable
}

// Contacts extracts a list of normalized field sets from a model reply. An
// array, a single object, or an object carrying a "contacts" array are all
// accepted.
func Contacts(text string) ([]model.FieldSet, error) {
	text = stripFences(text)

	candidates := []string{text}
	if sub := outermost(text, '[', ']'); sub != "" {
		candidates = append(candidates, sub)
	}
	if sub := outermost(text, '{', '}'); sub != "" {
		candidates = append(candidates, sub)
	}

	for _, c := range candidates {
		for _, attempt := range []string{c, repair(c)} {
			if sets, ok := decodeList(attempt); ok {
				return sets, nil
			}
		}
	}
	return nil, ErrUnparseable
}

// IsList reports whether the reply holds a JSON array rather than a single
// object, judged by which opening delimiter appears first.
func IsList(text string) bool {
	text = stripFences(text)
	arr := strings.IndexByte(text, '[')
	obj := strings.IndexByte(text, '{')
	return arr >= 0 && (obj < 0 || arr < obj)
}

func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// outermost returns the substring from the first open to the last close
// delimiter, or "" when there is none.
func outermost(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// repair applies lenient fixes: single quotes become double quotes when the
// text has no double quotes at all, and trailing commas are dropped.
func repair(text string) string {
	if !strings.Contains(text, `"`) {
		text = strings.ReplaceAll(text, "'", `"`)
	}
	return trailingCommaRe.ReplaceAllString(text, "$1")
}

func decodeObject(text string) (model.FieldSet, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || !hasKnownKey(obj) {
		return model.FieldSet{}, false
	}
	return fromMap(obj), true
}

// hasKnownKey reports whether obj carries at least one field key, so a
// wrapper object does not shadow the contact nested inside it.
func hasKnownKey(obj map[string]any) bool {
	for k := range obj {
		if _, ok := model.ParseField(k); ok {
			return true
		}
	}
	return false
}

func decodeList(text string) ([]model.FieldSet, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}

	switch t := v.(type) {
	case []any:
		return fromSlice(t), true
	case map[string]any:
		if inner, ok := t["contacts"].([]any); ok {
			return fromSlice(inner), true
		}
		if hasKnownKey(t) {
			return []model.FieldSet{fromMap(t)}, true
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if inner, ok := t[k].(map[string]any); ok && hasKnownKey(inner) {
				return []model.FieldSet{fromMap(inner)}, true
			}
		}
	}
	return nil, false
}

func fromSlice(items []any) []model.FieldSet {
	sets := make([]model.FieldSet, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			sets = append(sets, fromMap(obj))
		}
	}
	return sets
}

// fromMap maps a decoded object onto the ten known fields and normalizes the
// result. Keys match case-insensitively and non-string values become empty.
func fromMap(obj map[string]any) model.FieldSet {
	var fs model.FieldSet
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			continue
		}
		f, known := model.ParseField(k)
		if known && fs.Get(f) == "" {
			fs.Set(f, clean(s))
		}
	}
	return contact.Normalize(fs)
}

func regexFields(text string) (model.FieldSet, int) {
	var fs model.FieldSet
	for _, f := range model.Fields {
		if m := fieldRes[f].FindStringSubmatch(text); len(m) > 1 {
			fs.Set(f, clean(m[1]))
		}
	}
	return contact.Normalize(fs), fs.Filled()
}

var placeholders = map[string]bool{
	"n/a":       true,
	"na":        true,
	"none":      true,
	"null":      true,
	"nil":       true,
	"undefined": true,
	"unknown":   true,
	"-":         true,
	`""`:        true,
}

// clean trims a raw value and collapses placeholder tokens to empty.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if placeholders[strings.ToLower(s)] {
		return ""
	}
	return s
}
