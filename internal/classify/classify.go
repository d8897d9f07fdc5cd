// Package classify decides whether a game's event label names a tournament or
// only a round pairing, and derives a tournament name from the source URL when
// it does not.
package classify

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// pairingRule is one independent predicate in the cascade. Rules run in order
// and the first match wins.
type pairingRule struct {
	name string
	re   *regexp.Regexp
}

var pairingRules = []pairingRule{
	// Localized "Round N:" / "Game N:" prefixes (en, de, fr, es, pt).
	{"round-prefix", regexp.MustCompile(`(?i)^(round|game|runde|partie|ronde|ronda|partida|rodada)\s*\d+\s*:`)},
	// Knockout stage prefixes.
	{"knockout", regexp.MustCompile(`(?i)^(quarter-?finals?|semi-?finals?|finals?|3rd\s+place|bronze\s+medal|round\s+of\s+\d+)\s*\|`)},
	// Tiebreak markers anywhere in the label.
	{"tiebreak", regexp.MustCompile(`(?i)tie-?break`)},
	// Italian ordinal + "turno".
	{"turno", regexp.MustCompile(`(?i)^\d+\s*[°º]?\s*turno\b`)},
	// Bare "Last, First - Last, First" head-to-head labels.
	{"head-to-head", regexp.MustCompile(`^[\p{L}'\- ]+,\s*[\p{L}'\-. ]+\s+[-–]\s+[\p{L}'\- ]+,\s*[\p{L}'\-. ]+$`)},
}

// IsPairing reports whether the event label describes a single match-up rather
// than naming a competition, along with the rule that matched.
func IsPairing(eventLabel string) (rule string, ok bool) {
	label := strings.TrimSpace(eventLabel)
	if label == "" {
		return "", false
	}
	for _, r := range pairingRules {
		if r.re.MatchString(label) {
			return r.name, true
		}
	}
	return "", false
}

// Classify resolves the tournament name for one game record.
//
// A non-empty label that is not a pairing is authoritative and returned
// verbatim. A pairing label derives the name from the source URL, falling back
// to a formatted fallbackName. An empty label formats fallbackName directly.
func Classify(eventLabel, sourceURL, fallbackName string) (name string, isPairing bool) {
	label := strings.TrimSpace(eventLabel)
	if _, pairing := IsPairing(label); pairing {
		if slug := tournamentSlug(sourceURL); slug != "" {
			return TitleFromSlug(slug), true
		}
		return FormatName(fallbackName), true
	}
	if label != "" {
		return label, false
	}
	return FormatName(fallbackName), false
}

// nonTournamentSegments are URL path keywords that never carry a tournament slug.
var nonTournamentSegments = map[string]struct{}{
	"game": {}, "study": {}, "editor": {}, "analysis": {},
	"training": {}, "learn": {}, "tv": {}, "api": {},
}

// tournamentSlug extracts a plausible tournament slug from a source URL: the
// segment following /broadcast/, or the first generic segment longer than 10
// characters that is not a known non-tournament keyword.
func tournamentSlug(sourceURL string) string {
	u, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "broadcast" && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	for _, seg := range segments {
		if len(seg) <= 10 {
			continue
		}
		if _, skip := nonTournamentSegments[strings.ToLower(seg)]; skip {
			continue
		}
		return seg
	}
	return ""
}

// acronyms are federation and title abbreviations rendered uppercase.
var acronyms = map[string]struct{}{
	"fide": {}, "usa": {}, "us": {}, "gm": {}, "im": {}, "fm": {}, "wgm": {}, "wim": {},
}

// commonShortWords stay capitalized rather than uppercased.
var commonShortWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "cup": {}, "of": {}, "in": {}, "at": {},
	"on": {}, "to": {}, "a": {}, "an": {}, "de": {}, "la": {}, "el": {},
	"da": {}, "do": {}, "di": {}, "der": {}, "und": {},
}

// TitleFromSlug converts a URL slug to a display title. Single dashes separate
// words; a literal double dash is an explicit word-group separator and is
// rendered as " - ".
func TitleFromSlug(slug string) string {
	groups := strings.Split(slug, "--")
	out := make([]string, 0, len(groups))
	for _, group := range groups {
		words := strings.Split(group, "-")
		formatted := make([]string, 0, len(words))
		for _, w := range words {
			if w == "" {
				continue
			}
			formatted = append(formatted, formatWord(w))
		}
		if len(formatted) > 0 {
			out = append(out, strings.Join(formatted, " "))
		}
	}
	return strings.Join(out, " - ")
}

// FormatName formats a fallback name (typically a file or directory stem) with
// the same per-word rules as slug titles.
func FormatName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		words[i] = formatWord(w)
	}
	return strings.Join(words, " ")
}

// formatWord applies the word rules: pure digits unchanged, recognized
// acronyms uppercased, very short uncommon tokens uppercased, everything else
// capitalized.
func formatWord(w string) string {
	if isDigits(w) {
		return w
	}
	lower := strings.ToLower(w)
	if _, ok := acronyms[lower]; ok {
		return strings.ToUpper(w)
	}
	if len(w) <= 3 {
		if _, common := commonShortWords[lower]; !common {
			return strings.ToUpper(w)
		}
	}
	return capitalize(lower)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
