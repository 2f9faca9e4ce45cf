package doi

import (
	"regexp"
	"strings"
)

// Matcher proposes DOI candidates found in free text, in text order. A
// candidate is only a guess: the Extractor sanitizes and validates it.
type Matcher interface {
	Name() string
	Candidates(text string) []string
}

var (
	plainPattern     = regexp.MustCompile(`10(?:\.[0-9]+)+/\S+`)
	prefixedPattern  = regexp.MustCompile(`(?i)(?:urn:doi:|doi:|urn:)(10(?:(?:\.[0-9]+)+[/:%]\S+|[/:%][a-z0-9]+))`)
	doiPathPattern   = regexp.MustCompile(`(?i)^(?:urn:)?(?:doi:)?10[./:%]`)
	bareShortPattern = regexp.MustCompile(`10/[a-zA-Z0-9]+`)
)

// PlainMatcher finds 10.<registrant>/<suffix> anywhere in text. The suffix
// runs to the next whitespace, minus trailing sentence punctuation.
type PlainMatcher struct{}

func (PlainMatcher) Name() string { return "plain" }

func (PlainMatcher) Candidates(text string) []string {
	var out []string
	for _, loc := range plainPattern.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isAlnum(text[loc[0]-1]) {
			// 110.5/x, s10.1/x
			continue
		}
		out = append(out, trimTrailing(text[loc[0]:loc[1]]))
	}
	return out
}

// PrefixedMatcher finds identifiers behind doi:, urn:doi: or urn:, full or
// short, with /, : or % as divider.
type PrefixedMatcher struct{}

func (PrefixedMatcher) Name() string { return "prefixed" }

func (PrefixedMatcher) Candidates(text string) []string {
	var out []string
	for _, loc := range prefixedPattern.FindAllStringSubmatchIndex(text, -1) {
		c := text[loc[2]:loc[3]]
		if !strings.HasPrefix(c, "10.") && !boundaryAfter(text, loc[3]) {
			continue
		}
		out = append(out, trimTrailing(c))
	}
	return out
}

// URLMatcher finds resolver URLs, with or without scheme, whose host is a
// known mirror and whose path holds an identifier.
type URLMatcher struct {
	Mirrors Mirrors
}

func (URLMatcher) Name() string { return "url" }

func (m URLMatcher) Candidates(text string) []string {
	var out []string
	for _, tok := range urlTokens(text) {
		host, path, ok := strings.Cut(urlScheme.ReplaceAllString(tok, ""), "/")
		if ok && m.Mirrors.Contains(host) && doiPathPattern.MatchString(path) {
			out = append(out, tok)
		}
	}
	return out
}

// ShortcutMatcher finds doi.org/<token>, which the resolver reads as the
// short DOI 10/<token>.
type ShortcutMatcher struct {
	Hosts Mirrors
}

func (ShortcutMatcher) Name() string { return "shortcut" }

func (m ShortcutMatcher) Candidates(text string) []string {
	var out []string
	for _, tok := range urlTokens(text) {
		host, path, ok := strings.Cut(urlScheme.ReplaceAllString(tok, ""), "/")
		if ok && m.Hosts.Contains(host) && shortcutToken.MatchString(path) {
			out = append(out, DirectoryIndicator+"/"+path)
		}
	}
	return out
}

// BareShortMatcher finds a standalone 10/<token>. The match must stand
// alone as a word so that dates (01/10/2021) and paths (10/XYZ/123) are
// left alone.
type BareShortMatcher struct{}

func (BareShortMatcher) Name() string { return "short" }

func (BareShortMatcher) Candidates(text string) []string {
	var out []string
	for _, loc := range bareShortPattern.FindAllStringIndex(text, -1) {
		if boundaryBefore(text, loc[0]) && boundaryAfter(text, loc[1]) {
			out = append(out, text[loc[0]:loc[1]])
		}
	}
	return out
}

// urlTokens splits text into words stripped of surrounding punctuation.
func urlTokens(text string) []string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		if f = trimTrailing(strings.TrimLeft(f, openers)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

const (
	openers  = "(\"'[<"
	trailers = ".,;:!?\"'"
)

// trimTrailing drops sentence punctuation and unbalanced closing brackets
// from the end of a candidate. Balanced brackets are suffix syntax:
// 10.1002/(SICI)1522-2594(199911)42:5<952::AID-MRM16>3.0.CO;2-S.
func trimTrailing(s string) string {
	for s != "" {
		c := s[len(s)-1]
		switch {
		case strings.IndexByte(trailers, c) >= 0:
		case c == ')' && strings.Count(s, "(") < strings.Count(s, ")"):
		case c == ']' && strings.Count(s, "[") < strings.Count(s, "]"):
		case c == '>' && strings.Count(s, "<") < strings.Count(s, ">"):
		default:
			return s
		}
		s = s[:len(s)-1]
	}
	return s
}

func boundaryBefore(text string, i int) bool {
	return i == 0 || isSpace(text[i-1]) || strings.IndexByte(openers, text[i-1]) >= 0
}

func boundaryAfter(text string, i int) bool {
	if i == len(text) || isSpace(text[i]) {
		return true
	}
	if strings.IndexByte(trailers+")]>", text[i]) < 0 {
		return false
	}
	return i+1 == len(text) || isSpace(text[i+1])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
