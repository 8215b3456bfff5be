package contact

import (
	"regexp"
	"strings"
	"unicode"
)

// companySuffixRe matches legal-entity and business-descriptor tokens.
var companySuffixRe = regexp.MustCompile(`(?i)\b(inc|llc|llp|ltd|limited|corp|corporation|company|plc|gmbh|pvt|pte|group|holdings|technologies|technology|tech|solutions|consulting|consultants|services|systems|industries|enterprises|ventures|partners|associates|agency|labs|studios|studio|media|international|global|software|foundation)\b\.?`)

// titleWordRe matches job-title and role vocabulary.
var titleWordRe = regexp.MustCompile(`(?i)\b(ceo|cto|cfo|coo|cmo|cio|vp|svp|evp|founder|co-founder|cofounder|owner|president|chairman|chairperson|chief|director|manager|head|lead|principal|partner|senior|sr|junior|jr|associate|executive|officer|engineer|developer|designer|architect|consultant|analyst|specialist|coordinator|administrator|assistant|advisor|adviser|agent|representative|supervisor|scientist|researcher|professor|attorney|lawyer|accountant|editor|producer|intern|strategist|recruiter|sales|marketing)\b`)

// addressKeywordRe matches street-address vocabulary.
var addressKeywordRe = regexp.MustCompile(`(?i)\b(street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|way|court|ct|place|pl|highway|hwy|parkway|pkwy|square|sq|floor|fl|suite|ste|unit|building|bldg|block|tower|plaza|sector|phase|nagar|marg|colony|po box|p\.o\. box)\b`)

var emailRe = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// personTokenRe is one capitalized name token: "Jane", "O'Neil", "J.", "Smith-Jones".
var personTokenRe = regexp.MustCompile(`^[A-Z][A-Za-z'’.\-]*$`)

// plainPersonNameRe is exactly two capitalized words, e.g. "John Smith".
var plainPersonNameRe = regexp.MustCompile(`^[A-Z][a-z'’\-]+\s+[A-Z][a-z'’\-]+$`)

// capitalizedPhraseRe is one to three capitalized words.
var capitalizedPhraseRe = regexp.MustCompile(`^[A-Z][\w'’.&\-]*(\s+[A-Z][\w'’.&\-]*){0,2}$`)

// HasCompanySuffix reports whether s contains a company-suffix token such as
// Inc, LLC, Ltd, Corp, Group or Solutions.
func HasCompanySuffix(s string) bool {
	return companySuffixRe.MatchString(s)
}

// IsTitleLike reports whether s contains job-title vocabulary.
func IsTitleLike(s string) bool {
	return titleWordRe.MatchString(s)
}

// HasAddressKeyword reports whether s contains street-address vocabulary.
func HasAddressKeyword(s string) bool {
	return addressKeywordRe.MatchString(s)
}

// IsValidEmail reports whether s is a lowercase local@domain.tld address.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// PhoneDigits counts the decimal digits in s.
func PhoneDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// IsValidPhone reports whether s carries between 7 and 15 digits.
func IsValidPhone(s string) bool {
	d := PhoneDigits(s)
	return d >= 7 && d <= 15
}

// LooksLikePersonName reports whether s is one to four capitalized word
// tokens without digits and without a company suffix.
func LooksLikePersonName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || hasDigit(s) || HasCompanySuffix(s) {
		return false
	}
	tokens := strings.Fields(s)
	if len(tokens) < 1 || len(tokens) > 4 {
		return false
	}
	for _, tok := range tokens {
		if !personTokenRe.MatchString(tok) {
			return false
		}
	}
	return true
}

// IsPlainPersonName reports whether s is a two-word personal name without a
// company suffix.
func IsPlainPersonName(s string) bool {
	s = strings.TrimSpace(s)
	return plainPersonNameRe.MatchString(s) && !HasCompanySuffix(s)
}

// IsCapitalizedPhrase reports whether s is one to three capitalized words
// without a company suffix.
func IsCapitalizedPhrase(s string) bool {
	s = strings.TrimSpace(s)
	return capitalizedPhraseRe.MatchString(s) && !HasCompanySuffix(s)
}

// IsAllUpper reports whether s has at least one letter and no lowercase letters.
func IsAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// HasLetter reports whether s contains a letter.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
