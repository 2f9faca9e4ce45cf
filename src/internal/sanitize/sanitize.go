package sanitize

import (
	"net/url"
	"strings"
	"unicode"

	"bibdoi/src/internal/doi"
	"bibdoi/src/internal/names"
	"bibdoi/src/internal/schema"
)

// CleanString trims and removes control characters except tab, newline and
// carriage return, keeping at most max runes (no limit when max <= 0).
func CleanString(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			continue
		}
		b.WriteRune(r)
		if n++; max > 0 && n >= max {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanURL returns a validated http/https URL or empty string.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// CleanDOI returns the canonical form of raw. Values that merely contain a
// DOI, such as a pasted reference, are searched; anything else is returned
// cleaned but otherwise untouched so validation can report it.
func CleanDOI(x *doi.Extractor, raw string) string {
	raw = CleanString(raw, 512)
	if raw == "" {
		return ""
	}
	if x == nil {
		x = doi.Default()
	}
	if d, ok := x.Coerce(raw); ok {
		return d.String()
	}
	if d, ok := x.FindInText(raw); ok {
		return d.String()
	}
	return raw
}

// CleanKeywords trims, lowercases, dedupes, and limits keyword count.
func CleanKeywords(keys []string) []string {
	const maxKeywords = 64
	const maxLen = 64
	seen := map[string]bool{}
	var out []string
	for _, k := range keys {
		k = strings.ToLower(CleanString(k, maxLen))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) >= maxKeywords {
			break
		}
	}
	return out
}

// CleanAuthors sanitizes author names. An inverted "Family, Given" name in
// Family is split when Given is empty.
func CleanAuthors(authors schema.Authors) schema.Authors {
	const max = 256
	var out schema.Authors
	for _, a := range authors {
		fam := CleanString(a.Family, max)
		giv := CleanString(a.Given, max)
		if giv == "" {
			if f, g, ok := names.SplitInverted(fam); ok {
				fam, giv = f, g
			}
		}
		if fam == "" && giv == "" {
			continue
		}
		out = append(out, schema.Author{Family: fam, Given: giv})
	}
	return out
}

// CleanEntry applies conservative sanitization to all strings in the entry
// and canonicalizes its DOI with x (the default extractor when nil).
func CleanEntry(e *schema.Entry, x *doi.Extractor) {
	if e == nil {
		return
	}
	e.ID = CleanString(e.ID, 64)
	e.Type = strings.ToLower(CleanString(e.Type, 32))
	e.APA7.Title = CleanString(e.APA7.Title, 512)
	e.APA7.ContainerTitle = CleanString(e.APA7.ContainerTitle, 512)
	e.APA7.Publisher = CleanString(e.APA7.Publisher, 512)
	e.APA7.Journal = CleanString(e.APA7.Journal, 512)
	e.APA7.Volume = CleanString(e.APA7.Volume, 64)
	e.APA7.Issue = CleanString(e.APA7.Issue, 64)
	e.APA7.Pages = CleanString(e.APA7.Pages, 64)
	e.APA7.DOI = CleanDOI(x, e.APA7.DOI)
	e.APA7.URL = CleanURL(e.APA7.URL)
	e.APA7.Accessed = CleanString(e.APA7.Accessed, 32)
	e.APA7.Date = CleanString(e.APA7.Date, 32)
	e.APA7.Authors = CleanAuthors(e.APA7.Authors)
	e.Annotation.Summary = CleanString(e.Annotation.Summary, 12000)
	e.Annotation.Keywords = CleanKeywords(e.Annotation.Keywords)
}
