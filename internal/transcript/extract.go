// Package transcript provides pure functions for mining structured facts
// out of noisy spoken call transcripts: email addresses, meeting times,
// and the calendar invite built from them.
package transcript

import (
	"regexp"
	"sort"
	"strings"
)

// Candidate is one plausible email address mined from a transcript.
// Priority is higher for more literal matches: a symbol-form address
// outranks a fully spelled-out dictation.
type Candidate struct {
	Email    string
	Priority int
}

// numberWords maps spoken number words to digits for dictated usernames.
var numberWords = map[string]string{
	"zero": "0", "oh": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"ten": "10", "eleven": "11", "twelve": "12", "thirteen": "13",
	"fourteen": "14", "fifteen": "15", "sixteen": "16", "seventeen": "17",
	"eighteen": "18", "nineteen": "19", "twenty": "20", "thirty": "30",
	"forty": "40", "fifty": "50", "sixty": "60", "seventy": "70",
	"eighty": "80", "ninety": "90",
}

// invalidSoloUsernames rejects candidates whose whole username is a
// day name, filler word, or lone number word (folded in by init).
// Prevents treating phrases like "call me Tuesday" as an email fragment.
var invalidSoloUsernames = map[string]bool{
	"wednesday": true, "thursday": true, "monday": true, "tuesday": true,
	"friday": true, "saturday": true, "sunday": true,
	"call": true, "look": true, "looking": true, "reach": true, "meet": true,
	"available": true, "scheduled": true, "appointment": true, "meeting": true,
	"time": true, "address": true, "number": true, "phone": true, "business": true,
	"interested": true, "discussed": true, "contact": true, "march": true,
	"april": true, "may": true, "june": true, "january": true, "february": true,
	"july": true, "august": true, "september": true, "october": true,
	"november": true, "december": true, "invitation": true, "information": true,
	"provide": true, "discuss": true, "touch": true,
	"email": true, "your": true, "that": true, "this": true, "with": true,
	"from": true, "have": true, "been": true,
	"a": true, "i": true, "my": true, "me": true, "is": true, "it": true,
	"in": true, "on": true, "to": true, "of": true, "or": true, "an": true,
	"the": true, "and": true, "for": true, "but": true, "not": true,
	"are": true, "was": true, "has": true, "had": true, "his": true,
	"her": true, "our": true, "can": true, "you": true, "all": true, "its": true,
}

func init() {
	for w := range numberWords {
		invalidSoloUsernames[w] = true
	}
}

// stripLeading holds filler tokens dropped from the front of a
// spelled-out username before concatenation.
var stripLeading = map[string]bool{
	"your": true, "my": true, "is": true, "email": true, "address": true,
	"it": true, "its": true, "it's": true, "that's": true, "thats": true,
	"the": true, "a": true,
}

var (
	numberWordsAlt = joinByLengthDesc(numberWords)

	// Form 1: literal user@domain.tld
	reLiteral = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Form 2: contiguous username + "at" + domain.tld
	reAtDomain = regexp.MustCompile(`(?i)\b([A-Za-z0-9._%+-]{2,})\s+at\s+([A-Za-z0-9]+\.[A-Za-z]{2,})\b`)

	// Form 3: contiguous username + "at" + domain + "dot" + tld
	reAtDotTLD = regexp.MustCompile(`(?i)\b([A-Za-z0-9._%+-]{2,})\s+at\s+([A-Za-z0-9]+)\s+dot\s+([A-Za-z]{2,})\b`)

	// Spelled-out token: a single letter, a number word, digits, or a short word
	spelledToken = `(?:[A-Za-z]|` + numberWordsAlt + `|\d+|[A-Za-z]{2,6})`

	// Form 4: spelled-out username + "at" + domain + "dot" + tld.
	// RE2 has no lookbehind; the leading non-letter group stands in for
	// Python-style (?<![A-Za-z]).
	reSpelledDot = regexp.MustCompile(`(?i)(?:^|[^A-Za-z])(` + spelledToken + `(?:\s+` + spelledToken + `)+)\s+at\s+([A-Za-z0-9]+)\s+dot\s+([A-Za-z]{2,})\b`)

	// Form 5: spelled-out username + "at" + domain.tld
	reSpelledDomain = regexp.MustCompile(`(?i)(?:^|[^A-Za-z])(` + spelledToken + `(?:\s+` + spelledToken + `)+)\s+at\s+([A-Za-z0-9]+\.[A-Za-z]{2,})\b`)

	reWhitespace = regexp.MustCompile(`\s+`)
)

// numberWordPatterns are applied longest-first so "seventeen" is not
// rewritten as "7teen".
var numberWordPatterns = buildNumberWordPatterns()

type numberWordPattern struct {
	re    *regexp.Regexp
	digit string
}

func buildNumberWordPatterns() []numberWordPattern {
	words := make([]string, 0, len(numberWords))
	for w := range numberWords {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	patterns := make([]numberWordPattern, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, numberWordPattern{
			re:    regexp.MustCompile(`(?i)\b` + w + `\b`),
			digit: numberWords[w],
		})
	}
	return patterns
}

func joinByLengthDesc(m map[string]string) string {
	words := make([]string, 0, len(m))
	for w := range m {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return strings.Join(words, "|")
}

// ExtractEmails mines plausible email addresses out of a call transcript.
// It handles five decreasing-confidence spoken forms, from a literal
// user@domain.tld down to a fully spelled-out letter-by-letter dictation.
// Results are lower-cased, de-duplicated, and ordered best match first.
// It never returns an error; an empty slice means nothing email-like
// was found.
func ExtractEmails(text string) []string {
	candidates := ExtractEmailCandidates(text)
	emails := make([]string, 0, len(candidates))
	for _, c := range candidates {
		emails = append(emails, c.Email)
	}
	if len(emails) == 0 {
		return nil
	}
	return emails
}

// ExtractEmailCandidates pools matches across all five spoken forms and
// returns the unique candidates best-priority first, with provenance
// priorities retained.
func ExtractEmailCandidates(text string) []Candidate {
	var candidates []Candidate

	for _, m := range reLiteral.FindAllString(text, -1) {
		candidates = append(candidates, Candidate{Email: m, Priority: 100})
	}

	for _, m := range reAtDomain.FindAllStringSubmatch(text, -1) {
		if !invalidSoloUsernames[strings.ToLower(m[1])] {
			candidates = append(candidates, Candidate{Email: m[1] + "@" + m[2], Priority: 90})
		}
	}

	for _, m := range reAtDotTLD.FindAllStringSubmatch(text, -1) {
		if !invalidSoloUsernames[strings.ToLower(m[1])] {
			candidates = append(candidates, Candidate{Email: m[1] + "@" + m[2] + "." + m[3], Priority: 85})
		}
	}

	for _, m := range reSpelledDot.FindAllStringSubmatch(text, -1) {
		if user := assembleSpelledUsername(m[1]); user != "" {
			candidates = append(candidates, Candidate{Email: user + "@" + m[2] + "." + m[3], Priority: 80})
		}
	}

	for _, m := range reSpelledDomain.FindAllStringSubmatch(text, -1) {
		if user := assembleSpelledUsername(m[1]); user != "" {
			candidates = append(candidates, Candidate{Email: user + "@" + m[2], Priority: 75})
		}
	}

	return dedupe(candidates)
}

// assembleSpelledUsername strips leading filler tokens, substitutes
// number words for digits, and concatenates the remainder. Returns ""
// when the result is too short to be a plausible username.
func assembleSpelledUsername(raw string) string {
	tokens := strings.Fields(raw)
	for len(tokens) > 0 && stripLeading[strings.ToLower(tokens[0])] {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return ""
	}
	cleaned := strings.Join(tokens, " ")
	for _, p := range numberWordPatterns {
		cleaned = p.re.ReplaceAllString(cleaned, p.digit)
	}
	cleaned = reWhitespace.ReplaceAllString(cleaned, "")
	if len(cleaned) < 3 {
		return ""
	}
	return cleaned
}

func normalizeEmail(email string) string {
	return strings.Trim(strings.ToLower(email), ".")
}

// dedupe sorts candidates best-priority first and removes duplicates by
// normalized string equality, preserving best-priority order.
func dedupe(candidates []Candidate) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	seen := make(map[string]bool)
	var unique []Candidate
	for _, c := range candidates {
		e := normalizeEmail(c.Email)
		if !seen[e] {
			seen[e] = true
			unique = append(unique, Candidate{Email: e, Priority: c.Priority})
		}
	}
	return unique
}
