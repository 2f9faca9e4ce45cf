package doi

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Sanitizer repairs one kind of cosmetic damage in a candidate string.
type Sanitizer interface {
	Sanitize(string) string
}

// SanitizerFunc adapts a plain function to Sanitizer.
type SanitizerFunc func(string) string

func (f SanitizerFunc) Sanitize(s string) string { return f(s) }

// Pipeline applies its steps in order.
type Pipeline []Sanitizer

func (p Pipeline) Sanitize(s string) string {
	for _, step := range p {
		s = step.Sanitize(s)
	}
	return s
}

// Sanitizer steps, in the order DefaultPipeline applies them.
var (
	// TrimNoise trims surrounding whitespace and drops control, format,
	// replacement and control-picture characters (U+FFFD, U+241B, ESC).
	TrimNoise Sanitizer = SanitizerFunc(trimNoise)
	// RemoveWhitespace drops all whitespace; a DOI never contains any.
	RemoveWhitespace Sanitizer = SanitizerFunc(removeWhitespace)
	// RemoveBackslashes drops escaping left over from copy and paste.
	RemoveBackslashes Sanitizer = SanitizerFunc(removeBackslashes)
	// RemoveDecorations drops the characters { } [ ] ` | ~ ^.
	RemoveDecorations Sanitizer = SanitizerFunc(removeDecorations)
)

// DefaultPipeline returns a fresh copy of the pipeline used by Sanitize.
func DefaultPipeline() Pipeline {
	return Pipeline{TrimNoise, RemoveWhitespace, RemoveBackslashes, RemoveDecorations}
}

var defaultPipeline = DefaultPipeline()

// Sanitize runs DefaultPipeline over s. It never fails.
func Sanitize(s string) string { return defaultPipeline.Sanitize(s) }

// U+2400..U+243F, e.g. U+241B SYMBOL FOR ESCAPE, which PDF text extraction
// leaves behind in place of real control characters.
var controlPictures = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x2400, Hi: 0x243f, Stride: 1}},
}

// isNoise reports runes that are never visible DOI text. Whitespace is kept
// so that free text still splits into words.
func isNoise(r rune) bool {
	if r == utf8.RuneError {
		return true
	}
	if unicode.IsSpace(r) {
		return false
	}
	return unicode.In(r, unicode.C, controlPictures)
}

var (
	stripNoise    = runes.Remove(runes.Predicate(isNoise))
	stripControls = runes.Remove(runes.Predicate(func(r rune) bool {
		return isNoise(r) || unicode.IsControl(r)
	}))
	stripSpaces      = runes.Remove(runes.Predicate(unicode.IsSpace))
	stripBackslashes = runes.Remove(runes.Predicate(func(r rune) bool { return r == '\\' }))
	stripDecorations = runes.Remove(runes.Predicate(func(r rune) bool {
		return strings.ContainsRune("{}[]`|~^", r)
	}))
)

func apply(t transform.Transformer, s string) string {
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func trimNoise(s string) string {
	return apply(stripControls, strings.TrimSpace(apply(stripNoise, s)))
}

// dropNoise keeps whitespace and line breaks; it prepares free text for
// matching.
func dropNoise(s string) string { return apply(stripNoise, s) }

func removeWhitespace(s string) string  { return apply(stripSpaces, s) }
func removeBackslashes(s string) string { return apply(stripBackslashes, s) }
func removeDecorations(s string) string { return apply(stripDecorations, s) }

// isBlank reports input that carries no identifier at all: nothing but
// whitespace and underscores.
func isBlank(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool { return r == '_' || unicode.IsSpace(r) }) == ""
}
