package contact

import (
	"unicode/utf8"

	"github.com/sells-group/cardscan/internal/model"
)

// Merge combines primary with a fallback secondary field set. Primary values
// win unless they are empty or lower quality: an invalid email or phone loses
// to a valid one, and any other field loses to a strictly longer value.
func Merge(primary, secondary model.FieldSet) model.FieldSet {
	var out model.FieldSet
	for _, f := range model.Fields {
		out.Set(f, mergeField(f, primary.Get(f), secondary.Get(f)))
	}
	return out
}

func mergeField(f model.Field, p, s string) string {
	switch {
	case p == "":
		return s
	case s == "":
		return p
	}

	switch f {
	case model.FieldEmail:
		if !IsValidEmail(p) && IsValidEmail(s) {
			return s
		}
		return p
	case model.FieldPhone:
		if !IsValidPhone(p) && IsValidPhone(s) {
			return s
		}
		return p
	default:
		if utf8.RuneCountInString(s) > utf8.RuneCountInString(p) {
			return s
		}
		return p
	}
}
