package contact

import (
	"unicode/utf8"

	"github.com/sells-group/cardscan/internal/model"
)

// IsValid reports whether fs carries enough signal to end the extraction
// cascade. It holds when any of these is true:
//   - the name is longer than 3 characters with a letter, plus a valid email or phone
//   - both email and phone are valid
//   - a name is present and the company is longer than 1 character
func IsValid(fs model.FieldSet) bool {
	validEmail := fs.Email != "" && IsValidEmail(fs.Email)
	validPhone := fs.Phone != "" && IsValidPhone(fs.Phone)

	if utf8.RuneCountInString(fs.Name) > 3 && HasLetter(fs.Name) && (validEmail || validPhone) {
		return true
	}
	if validEmail && validPhone {
		return true
	}
	return fs.Name != "" && utf8.RuneCountInString(fs.Company) > 1
}

// FilterValid returns the gate-valid entries of sets, in order, keeping at
// most limit entries. A limit <= 0 keeps all.
func FilterValid(sets []model.FieldSet, limit int) []model.FieldSet {
	var out []model.FieldSet
	for _, fs := range sets {
		if limit > 0 && len(out) >= limit {
			break
		}
		if IsValid(fs) {
			out = append(out, fs)
		}
	}
	return out
}
