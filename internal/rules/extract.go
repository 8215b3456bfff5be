// Package rules derives contact field sets from raw card text without any
// model assistance. It is the deterministic last resort of the cascade.
package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sells-group/cardscan/internal/contact"
	"github.com/sells-group/cardscan/internal/model"
)

const (
	minLineLen = 2
	maxLineLen = 80
)

// candidateLine is one line of card text considered for name, title or
// company assignment.
type candidateLine struct {
	text         string
	isTitle      bool
	isCompany    bool
	isPersonName bool
	used         bool
}

// Extract derives a normalized field set from raw text.
func Extract(text string) model.FieldSet {
	var fs model.FieldSet

	fs.Email = firstEmail(text)
	fs.Phone = firstPhone(text)
	fs.Website = firstURL(text)
	fs.LinkedIn = firstSubmatch(linkedInTokenRe, text)
	fs.Instagram = firstSubmatch(instagramTokenRe, text)
	fs.Twitter = firstSubmatch(twitterTokenRe, text)
	fs.Address = firstAddress(text)

	candidates := classify(splitLines(text))

	if c := claim(candidates, func(c *candidateLine) bool { return c.isTitle }); c != nil {
		fs.Title = c.text
	}
	if c := claim(candidates, func(c *candidateLine) bool { return c.isCompany }); c != nil {
		fs.Company = c.text
	}
	if c := claim(candidates, func(c *candidateLine) bool { return c.isPersonName }); c != nil {
		fs.Name = c.text
	}

	for i := range candidates {
		if fs.Name != "" && fs.Company != "" {
			break
		}
		c := &candidates[i]
		if c.used {
			continue
		}
		c.used = true
		if fs.Name == "" {
			fs.Name = c.text
		} else {
			fs.Company = c.text
		}
	}

	return contact.Normalize(fs)
}

// splitLines returns the trimmed lines of text that are at least two
// characters long.
func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		l = strings.TrimSpace(l)
		if utf8.RuneCountInString(l) >= minLineLen {
			lines = append(lines, l)
		}
	}
	return lines
}

// classify drops lines that carry contact details or are the wrong length
// and annotates the rest.
func classify(lines []string) []candidateLine {
	var out []candidateLine
	for _, l := range lines {
		if skipLine(l) {
			continue
		}
		isCompany := contact.HasCompanySuffix(l)
		out = append(out, candidateLine{
			text:         l,
			isTitle:      contact.IsTitleLike(l),
			isCompany:    isCompany,
			isPersonName: !isCompany && contact.LooksLikePersonName(l),
		})
	}
	return out
}

func skipLine(l string) bool {
	n := utf8.RuneCountInString(l)
	switch {
	case n <= 2 || n > maxLineLen:
		return true
	case strings.Contains(l, "@"):
		return true
	case mostlyDigits(l):
		return true
	case bareURLLineRe.MatchString(l):
		return true
	case socialDomainRe.MatchString(l):
		return true
	case isAddressFragment(l):
		return true
	}
	return false
}

// claim marks and returns the first unused candidate matching pred.
func claim(candidates []candidateLine, pred func(*candidateLine) bool) *candidateLine {
	for i := range candidates {
		c := &candidates[i]
		if !c.used && pred(c) {
			c.used = true
			return c
		}
	}
	return nil
}

func mostlyDigits(l string) bool {
	var digits, total int
	for _, r := range l {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return total > 0 && digits*2 >= total
}

func isAddressFragment(l string) bool {
	return strings.IndexFunc(l, unicode.IsDigit) >= 0 && contact.HasAddressKeyword(l)
}
