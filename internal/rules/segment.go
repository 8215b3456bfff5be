package rules

import (
	"strings"

	"github.com/sells-group/cardscan/internal/model"
)

// Segment splits text holding several cards into one field set per contact.
// Each distinct email (in order of first appearance) closes a segment that
// began after the previous one. Detail lines directly after an email (phone,
// website, social link or address) stay with that email's contact; the first
// blank or other line starts the next contact. The last segment runs to the
// end of text. With fewer than two distinct emails the whole text is one
// contact. At most max sets are returned when max > 0.
func Segment(text string, max int) []model.FieldSet {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	emails, locs := allEmails(text)
	if len(emails) < 2 {
		return []model.FieldSet{Extract(text)}
	}

	out := make([]model.FieldSet, 0, len(emails))
	start := 0
	for i, loc := range locs {
		end := len(text)
		if i < len(locs)-1 {
			end = segmentEnd(text, loc[1], locs[i+1][0])
		}
		fs := Extract(text[start:end])
		if fs.Email == "" {
			fs.Email = strings.ToLower(emails[i])
		}
		out = append(out, fs)
		start = end

		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// segmentEnd returns where the segment closed by the email ending at from
// stops: after the rest of the email's line and the detail lines following
// it, never past limit.
func segmentEnd(text string, from, limit int) int {
	nl := strings.IndexByte(text[from:limit], '\n')
	if nl < 0 {
		return limit
	}
	end := from + nl

	for end < limit {
		rest := text[end+1 : limit]
		n := strings.IndexByte(rest, '\n')
		if n < 0 {
			n = len(rest)
		}
		if !isDetailLine(strings.TrimSpace(rest[:n])) {
			break
		}
		end += 1 + n
	}
	return end
}

// isDetailLine reports whether l carries only contact details and no name,
// title or company.
func isDetailLine(l string) bool {
	if l == "" || strings.Contains(l, "@") {
		return false
	}
	return firstPhone(l) != "" ||
		mostlyDigits(l) ||
		bareURLLineRe.MatchString(l) ||
		socialDomainRe.MatchString(l) ||
		isAddressFragment(l)
}
