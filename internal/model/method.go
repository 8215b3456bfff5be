package model

import "strings"

// Method records which extraction strategies produced a result.
type Method string

const (
	MethodVision       Method = "vision"
	MethodOCRTextModel Method = "ocr_text_model"
	MethodOCRRules     Method = "ocr_rules"
	MethodRules        Method = "rules"
	MethodNone         Method = "none"
)

// ComposeMethod joins strategy tags in the order they contributed, e.g.
// "vision+ocr_rules". Empty tags are skipped.
func ComposeMethod(parts ...Method) Method {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			names = append(names, string(p))
		}
	}
	if len(names) == 0 {
		return MethodNone
	}
	return Method(strings.Join(names, "+"))
}

// Parts splits a composite tag into its strategy tags.
func (m Method) Parts() []Method {
	if m == "" {
		return nil
	}
	raw := strings.Split(string(m), "+")
	out := make([]Method, len(raw))
	for i, r := range raw {
		out[i] = Method(r)
	}
	return out
}

// Has reports whether the tag includes the given strategy.
func (m Method) Has(part Method) bool {
	for _, p := range m.Parts() {
		if p == part {
			return true
		}
	}
	return false
}
