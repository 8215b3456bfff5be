// Package contact cleans, cross-validates, merges and gates contact field sets.
package contact

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/cardscan/internal/model"
)

var (
	emailAtRe      = regexp.MustCompile(`(?i)\s*[\[(]\s*at\s*[\])]\s*`)
	emailDotRe     = regexp.MustCompile(`(?i)\s*[\[(]\s*dot\s*[\])]\s*`)
	phoneStripRe   = regexp.MustCompile(`[^0-9+\-() ]`)
	multiSpaceRe   = regexp.MustCompile(` {2,}`)
	schemeRe       = regexp.MustCompile(`(?i)^https?://`)
	domainSuffixRe = regexp.MustCompile(`(?i)[a-z0-9\-]\.[a-z]{2,}`)
	honorificRe    = regexp.MustCompile(`(?i)^(mr|mrs|ms|miss|mx|dr|prof|sir|madam|rev)\.?\s+`)
	wordRe         = regexp.MustCompile(`[A-Za-z]+`)
	phoneLikeRe    = regexp.MustCompile(`^[0-9\s()+\-.]{8,}$`)
	urlStartRe     = regexp.MustCompile(`(?i)^(https?://|www\.)`)

	linkedInPrefixRe  = regexp.MustCompile(`(?i)^(https?://)?([a-z]{2,3}\.)?(linkedin\.com|lnkd\.in)/((in|company|pub)/)?`)
	instagramPrefixRe = regexp.MustCompile(`(?i)^(https?://)?(www\.)?(instagram\.com|instagr\.am)/`)
	twitterPrefixRe   = regexp.MustCompile(`(?i)^(https?://)?(www\.|mobile\.)?(twitter\.com|x\.com)/`)
)

const trailingPunct = ".,;:!?"

// titleAcronyms are re-uppercased after title-casing a job title.
var titleAcronyms = map[string]bool{
	"CEO": true, "CTO": true, "CFO": true, "COO": true, "VP": true,
	"HR": true, "IT": true, "PR": true, "UI": true, "UX": true,
}

// Normalize cleans every field of fs and applies the cross-field corrections.
// The result always has trimmed values.
func Normalize(fs model.FieldSet) model.FieldSet {
	out := fs.Trimmed()

	out.Email = CleanEmail(out.Email)
	out.Phone = CleanPhone(out.Phone)
	out.Website = CleanWebsite(out.Website)
	out.LinkedIn = CleanHandle(out.LinkedIn, linkedInPrefixRe)
	out.Instagram = CleanHandle(out.Instagram, instagramPrefixRe)
	out.Twitter = CleanHandle(out.Twitter, twitterPrefixRe)
	out.Name = CleanName(out.Name)
	out.Title = CleanTitle(out.Title)
	out.Company = CleanCompany(out.Company)

	out = CrossValidate(out)
	return out.Trimmed()
}

// CleanEmail lowercases, de-obfuscates and validates an email address.
// Invalid addresses become "".
func CleanEmail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = emailAtRe.ReplaceAllString(s, "@")
	s = emailDotRe.ReplaceAllString(s, ".")
	s = strings.ToLower(strings.Join(strings.Fields(s), ""))
	s = strings.TrimPrefix(s, "mailto:")
	s = strings.TrimRight(s, trailingPunct)
	if !IsValidEmail(s) {
		return ""
	}
	return s
}

// CleanPhone removes everything but digits, '+', '-', parentheses and spaces.
// Numbers with fewer than 7 or more than 15 digits become "".
func CleanPhone(s string) string {
	s = phoneStripRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
	if !IsValidPhone(s) {
		return ""
	}
	return s
}

// CleanWebsite strips trailing punctuation and ensures a scheme. Values
// without a domain-like suffix, and email addresses, become "".
func CleanWebsite(s string) string {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimRight(s, trailingPunct)
	if s == "" || !domainSuffixRe.MatchString(s) {
		return ""
	}
	if !schemeRe.MatchString(s) {
		if strings.Contains(s, "@") {
			return ""
		}
		s = "https://" + s
	}
	return s
}

// CleanHandle reduces a social profile URL or @handle to the bare handle.
func CleanHandle(s string, prefix *regexp.Regexp) string {
	s = strings.TrimSpace(s)
	s = prefix.ReplaceAllString(s, "")
	s = strings.TrimPrefix(s, "@")
	return strings.TrimRight(s, "/")
}

// CleanName strips honorifics and title-cases all-uppercase names.
func CleanName(s string) string {
	s = strings.TrimSpace(honorificRe.ReplaceAllString(strings.TrimSpace(s), ""))
	if len([]rune(s)) > 2 && IsAllUpper(s) {
		s = titleCase(s)
	}
	return s
}

// CleanTitle title-cases all-uppercase job titles while keeping acronyms
// such as CEO and VP uppercase.
func CleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) > 3 && IsAllUpper(s) {
		s = titleCase(s)
		s = wordRe.ReplaceAllStringFunc(s, func(w string) string {
			if up := strings.ToUpper(w); titleAcronyms[up] {
				return up
			}
			return w
		})
	}
	return s
}

// CleanCompany strips trailing punctuation and title-cases long all-uppercase
// company names.
func CleanCompany(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), trailingPunct)
	s = strings.TrimSpace(s)
	if len([]rune(s)) > 6 && IsAllUpper(s) {
		s = titleCase(s)
	}
	return s
}

// CrossValidate moves values that landed in the wrong field. Rules run in a
// fixed order and each sees the result of the previous one.
func CrossValidate(fs model.FieldSet) model.FieldSet {
	// 1. An email in the name slot.
	if strings.Contains(fs.Name, "@") {
		if fs.Email == "" {
			fs.Email = CleanEmail(fs.Name)
		}
		fs.Name = ""
	}

	// 2. A phone number in the name slot.
	if fs.Name != "" && phoneLikeRe.MatchString(fs.Name) {
		if fs.Phone == "" {
			fs.Phone = CleanPhone(fs.Name)
		}
		fs.Name = ""
	}

	// 3. A URL in the name slot.
	if fs.Name != "" && urlStartRe.MatchString(fs.Name) {
		if fs.Website == "" {
			fs.Website = CleanWebsite(fs.Name)
		}
		fs.Name = ""
	}

	// 4. Company name in the name slot.
	if fs.Name != "" && HasCompanySuffix(fs.Name) && (fs.Company == "" || IsPlainPersonName(fs.Company)) {
		fs.Name, fs.Company = fs.Company, CleanCompany(fs.Name)
	}

	// 5. Person name in the company slot.
	if fs.Name == "" && fs.Company != "" && IsCapitalizedPhrase(fs.Company) {
		fs.Name = fs.Company
		fs.Company = ""
	}

	// 6. An email in the title slot.
	if strings.Contains(fs.Title, "@") {
		if fs.Email == "" {
			fs.Email = CleanEmail(fs.Title)
		}
		fs.Title = ""
	}

	return fs
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
