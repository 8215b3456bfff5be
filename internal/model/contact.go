// Package model defines the contact records and results shared across the
// extraction cascade.
package model

import "strings"

// Field names a single key of a FieldSet.
type Field string

const (
	FieldName      Field = "name"
	FieldTitle     Field = "title"
	FieldCompany   Field = "company"
	FieldPhone     Field = "phone"
	FieldEmail     Field = "email"
	FieldWebsite   Field = "website"
	FieldAddress   Field = "address"
	FieldLinkedIn  Field = "linkedin"
	FieldInstagram Field = "instagram"
	FieldTwitter   Field = "twitter"
)

// Fields lists every FieldSet key in canonical order.
var Fields = []Field{
	FieldName,
	FieldTitle,
	FieldCompany,
	FieldPhone,
	FieldEmail,
	FieldWebsite,
	FieldAddress,
	FieldLinkedIn,
	FieldInstagram,
	FieldTwitter,
}

// ParseField resolves a key case-insensitively to a known Field.
func ParseField(key string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(key)))
	for _, known := range Fields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// FieldSet is a contact record. Every key is always present when encoded;
// an empty string means the value is absent.
type FieldSet struct {
	Name      string `json:"name" yaml:"name"`
	Title     string `json:"title" yaml:"title"`
	Company   string `json:"company" yaml:"company"`
	Phone     string `json:"phone" yaml:"phone"`
	Email     string `json:"email" yaml:"email"`
	Website   string `json:"website" yaml:"website"`
	Address   string `json:"address" yaml:"address"`
	LinkedIn  string `json:"linkedin" yaml:"linkedin"`
	Instagram string `json:"instagram" yaml:"instagram"`
	Twitter   string `json:"twitter" yaml:"twitter"`
}

// Get returns the value stored under key, or "" for unknown keys.
func (fs FieldSet) Get(key Field) string {
	if p := fs.ptr(key); p != nil {
		return *p
	}
	return ""
}

// Set stores value under key. Unknown keys are ignored.
func (fs *FieldSet) Set(key Field, value string) {
	if p := fs.ptr(key); p != nil {
		*p = value
	}
}

func (fs *FieldSet) ptr(key Field) *string {
	switch key {
	case FieldName:
		return &fs.Name
	case FieldTitle:
		return &fs.Title
	case FieldCompany:
		return &fs.Company
	case FieldPhone:
		return &fs.Phone
	case FieldEmail:
		return &fs.Email
	case FieldWebsite:
		return &fs.Website
	case FieldAddress:
		return &fs.Address
	case FieldLinkedIn:
		return &fs.LinkedIn
	case FieldInstagram:
		return &fs.Instagram
	case FieldTwitter:
		return &fs.Twitter
	default:
		return nil
	}
}

// Trimmed returns a copy with every value whitespace-trimmed.
func (fs FieldSet) Trimmed() FieldSet {
	out := fs
	for _, f := range Fields {
		out.Set(f, strings.TrimSpace(fs.Get(f)))
	}
	return out
}

// Filled returns the number of non-empty fields.
func (fs FieldSet) Filled() int {
	n := 0
	for _, f := range Fields {
		if fs.Get(f) != "" {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no field carries a value.
func (fs FieldSet) IsEmpty() bool {
	return fs.Filled() == 0
}

// Map returns the record as a key → value map holding all ten keys.
func (fs FieldSet) Map() map[string]string {
	m := make(map[string]string, len(Fields))
	for _, f := range Fields {
		m[string(f)] = fs.Get(f)
	}
	return m
}

// ExtractionResult is the outcome of a single-contact extraction.
type ExtractionResult struct {
	RequestID  string   `json:"request_id" yaml:"request_id"`
	Fields     FieldSet `json:"fields" yaml:"fields"`
	RawText    string   `json:"raw_text" yaml:"raw_text"`
	Method     Method   `json:"method" yaml:"method"`
	DurationMs int64    `json:"duration_ms" yaml:"duration_ms"`
}

// MultiContactResult is the outcome of a multi-contact extraction.
type MultiContactResult struct {
	RequestID  string     `json:"request_id" yaml:"request_id"`
	Contacts   []FieldSet `json:"contacts" yaml:"contacts"`
	RawText    string     `json:"raw_text" yaml:"raw_text"`
	Method     Method     `json:"method" yaml:"method"`
	DurationMs int64      `json:"duration_ms" yaml:"duration_ms"`
}
