package rules

import (
	"regexp"
	"strings"

	"github.com/sells-group/cardscan/internal/contact"
)

var (
	emailTokenRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// phoneTokenRe stays on one line; digit count is checked separately.
	phoneTokenRe = regexp.MustCompile(`\+?\(?\d[\d \t().\-]{5,}\d`)

	urlTokenRe = regexp.MustCompile(`(?i)\b(?:https?://[^\s,;]+|www\.[^\s,;]+|[a-z0-9][a-z0-9\-]*(?:\.[a-z0-9\-]+)*\.(?:com|net|org|io|co|ai|dev|app|biz|info|me|us|uk|in|ca|au|de|fr|es|it|nl|eu|tech|xyz)(?:\.[a-z]{2})?\b(?:/[^\s,;]*)?)`)

	linkedInTokenRe  = regexp.MustCompile(`(?i)(?:linkedin\.com|lnkd\.in)/(?:(?:in|company|pub)/)?([A-Za-z0-9_\-%]+)`)
	instagramTokenRe = regexp.MustCompile(`(?i)(?:instagram\.com|instagr\.am)/([A-Za-z0-9_.]+)`)
	twitterTokenRe   = regexp.MustCompile(`(?i)\b(?:twitter|x)\.com/@?([A-Za-z0-9_]+)`)

	socialDomainRe = regexp.MustCompile(`(?i)(linkedin\.com|lnkd\.in|instagram\.com|instagr\.am|twitter\.com|\bx\.com|facebook\.com|fb\.com)`)

	addressTokenRe = regexp.MustCompile(`(?i)\b\d{1,6}(?:st|nd|rd|th|[a-z])?\b[^\n]*?\b(?:street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|way|court|ct|place|pl|highway|hwy|parkway|pkwy|square|sq|floor|fl|suite|ste|unit|building|bldg|block|tower|plaza|sector|phase|nagar|marg|colony)\b[^\n]*`)

	bareURLLineRe = regexp.MustCompile(`(?i)^(?:https?://|www\.)\S+$|^[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,}(?:/\S*)?$`)
)

// firstEmail returns the first email-shaped token in text.
func firstEmail(text string) string {
	return emailTokenRe.FindString(text)
}

// allEmails returns the distinct email tokens of text, in order of first
// appearance, with their byte offsets.
func allEmails(text string) ([]string, [][]int) {
	seen := make(map[string]bool)
	var emails []string
	var locs [][]int
	for _, loc := range emailTokenRe.FindAllStringIndex(text, -1) {
		e := strings.ToLower(text[loc[0]:loc[1]])
		if seen[e] {
			continue
		}
		seen[e] = true
		emails = append(emails, text[loc[0]:loc[1]])
		locs = append(locs, loc)
	}
	return emails, locs
}

// firstPhone returns the first phone-shaped token with at least 9 digits.
func firstPhone(text string) string {
	for _, m := range phoneTokenRe.FindAllString(text, -1) {
		if contact.PhoneDigits(m) >= 9 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// firstURL returns the first website-shaped token that is not part of an
// email address or a social profile link.
func firstURL(text string) string {
	stripped := emailTokenRe.ReplaceAllString(text, " ")
	for _, m := range urlTokenRe.FindAllString(stripped, -1) {
		if socialDomainRe.MatchString(m) {
			continue
		}
		return strings.TrimRight(m, ".,;:")
	}
	return ""
}

func firstSubmatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return ""
}

// firstAddress returns the first street-address fragment: a leading number
// followed on the same line by an address keyword.
func firstAddress(text string) string {
	return strings.TrimSpace(addressTokenRe.FindString(text))
}
