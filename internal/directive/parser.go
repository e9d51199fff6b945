// Package directive extracts structured booking actions from free-form
// assistant text. The primary grammar is the explicit BOOK:/CANCEL: token
// the system prompt asks the model to emit; a natural-language fallback
// tolerates replies where the model described the action in prose instead.
// The parser only produces directives, it never applies them.
package directive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind discriminates the two directive actions.
type Kind int

const (
	Book Kind = iota + 1
	Cancel
)

func (k Kind) String() string {
	switch k {
	case Book:
		return "book"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Directive is a structured action recovered from assistant text.
// Fallback marks directives recovered by the natural-language heuristic
// rather than the explicit grammar.
type Directive struct {
	Kind     Kind
	Date     string // YYYY-MM-DD
	Time     string // HH:MM, 24-hour
	Fallback bool
}

var (
	bookTokenRe   = regexp.MustCompile(`BOOK:(\d{4}-\d{2}-\d{2}):(\d{2}:\d{2})`)
	cancelTokenRe = regexp.MustCompile(`CANCEL:(\d{4}-\d{2}-\d{2}):(\d{2}:\d{2})`)

	multiNewlineRe = regexp.MustCompile(`\n{2,}`)

	monthDate = `(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})`

	// Ordered fallback patterns for a booking phrased in prose. The first
	// match wins.
	bookForTimeOnMonthRe = regexp.MustCompile(`(?i)for\s+(\d{1,2}:\d{2})\s+on\s+` + monthDate)
	bookOnISOAtTimeRe    = regexp.MustCompile(`(?i)on\s+(\d{4}-\d{2}-\d{2})\s+at\s+(\d{1,2}:\d{2})`)
	bookForTimeOnISORe   = regexp.MustCompile(`(?i)for\s+(\d{1,2}:\d{2})\s+on\s+(\d{4}-\d{2}-\d{2})`)
	bookFor12hOnMonthRe  = regexp.MustCompile(`(?i)for\s+(\d{1,2}):(\d{2})\s*(AM|PM)\s+on\s+` + monthDate)
	bookAt12hOnMonthRe   = regexp.MustCompile(`(?i)at\s+(\d{1,2}):(\d{2})\s*(AM|PM)\s+on\s+` + monthDate)

	// Cancellation deliberately carries fewer patterns than booking; the
	// observed model phrasings are narrower.
	cancelForTimeOnMonthRe = regexp.MustCompile(`(?i)for\s+(\d{1,2}:\d{2})\s+on\s+` + monthDate)
	cancelOnMonthAtTimeRe  = regexp.MustCompile(`(?i)on\s+` + monthDate + `\s+at\s+(\d{1,2}:\d{2})`)
)

var monthNumbers = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
}

// Parse scans assistant text for a directive. It returns the user-visible
// text (the explicit token stripped, when one was present) and the
// directive, or nil when the text carries none. Parsing is pure: equal
// input yields equal output.
func Parse(text string) (string, *Directive) {
	if m := bookTokenRe.FindStringSubmatch(text); m != nil {
		return stripToken(text, m[0]), &Directive{Kind: Book, Date: m[1], Time: m[2]}
	}
	if m := cancelTokenRe.FindStringSubmatch(text); m != nil {
		return stripToken(text, m[0]), &Directive{Kind: Cancel, Date: m[1], Time: m[2]}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "scheduled") || strings.Contains(lower, "booked") {
		if d := fallbackBook(text); d != nil {
			return text, d
		}
	}
	if strings.Contains(lower, "cancelled") || strings.Contains(lower, "canceled") {
		if d := fallbackCancel(text); d != nil {
			return text, d
		}
	}
	return text, nil
}

func fallbackBook(text string) *Directive {
	if m := bookForTimeOnMonthRe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: Book, Date: monthToISO(m[2], m[3], m[4]), Time: padTime(m[1]), Fallback: true}
	}
	if m := bookOnISOAtTimeRe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: Book, Date: m[1], Time: padTime(m[2]), Fallback: true}
	}
	if m := bookForTimeOnISORe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: Book, Date: m[2], Time: padTime(m[1]), Fallback: true}
	}
	if m := bookFor12hOnMonthRe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: Book, Date: monthToISO(m[4], m[5], m[6]), Time: to24Hour(m[1], m[2], m[3]), Fallback: true}
	}
	if m := bookAt12hOnMonthRe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: Book, Date: monthToISO(m[4], m[5], m[6]), Time: to24Hour(m[1], m[2], m[3]), Fallback: true}
	}
	return nil
}

func fallbackCancel(text string) *Directive {
	if m := cancelForTimeOnMonthRe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: Cancel, Date: monthToISO(m[2], m[3], m[4]), Time: padTime(m[1]), Fallback: true}
	}
	if m := cancelOnMonthAtTimeRe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: Cancel, Date: monthToISO(m[1], m[2], m[3]), Time: padTime(m[4]), Fallback: true}
	}
	return nil
}

// stripToken removes the matched grammar token and tidies the remainder:
// runs of blank lines left by the removal collapse to a single newline.
func stripToken(text, token string) string {
	cleaned := strings.Replace(text, token, "", 1)
	cleaned = multiNewlineRe.ReplaceAllString(cleaned, "\n")
	return strings.TrimSpace(cleaned)
}

func monthToISO(month, day, year string) string {
	num, ok := monthNumbers[strings.ToLower(month)]
	if !ok {
		num = "01"
	}
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%s-%s-%02d", year, num, d)
}

// padTime widens h:MM to HH:MM.
func padTime(t string) string {
	if i := strings.IndexByte(t, ':'); i == 1 {
		return "0" + t
	}
	return t
}

func to24Hour(hour, minute, meridiem string) string {
	h, _ := strconv.Atoi(hour)
	switch strings.ToUpper(meridiem) {
	case "PM":
		if h != 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	}
	return fmt.Sprintf("%02d:%s", h, minute)
}
