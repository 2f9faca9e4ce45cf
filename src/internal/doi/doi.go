// Package doi recognizes, repairs and renders Digital Object Identifiers.
//
// A DOI is accepted in its plain form (10.1006/jmbi.1998.2354), as a short DOI
// (10/gf4gqc), behind a scheme (doi:, urn:doi:) or inside a resolver URL
// (https://doi.org/..., dx.doi.org and other mirrors). Every function in this
// package is pure; values can be shared freely between goroutines.
package doi

import "strings"

// DirectoryIndicator is the only directory indicator the DOI system assigns.
const DirectoryIndicator = "10"

// DOI is an immutable, validated identifier. The zero value is not a DOI;
// use IsZero to detect it. Compare DOIs with Equal: the case of the
// identifier is preserved but not significant.
type DOI struct {
	value      string
	registrant string
	suffix     string
	short      bool
}

// New builds a DOI from raw, failing with a *ParseError when raw is not a
// single DOI, short DOI or resolver URL. Surrounding whitespace and
// invisible format characters are tolerated; tabs and line breaks inside
// raw are not. Use Parse for dirty input.
func New(raw string) (DOI, error) { return defaultExtractor.New(raw) }

// Parse is the tolerant counterpart of New: raw is sanitized first and any
// failure is reported as ok == false.
func Parse(raw string) (DOI, bool) { return defaultExtractor.Parse(raw) }

// Coerce accepts canonical input unchanged and sanitizes anything else.
func Coerce(raw string) (DOI, bool) { return defaultExtractor.Coerce(raw) }

// FindInText returns the first DOI found in arbitrary text.
func FindInText(text string) (DOI, bool) { return defaultExtractor.FindInText(text) }

// String returns the canonical form, e.g. 10.1006/jmbi.1998.2354 or 10/gf4gqc.
func (d DOI) String() string { return d.value }

// IsZero reports whether d holds no identifier.
func (d DOI) IsZero() bool { return d.value == "" }

// IsShort reports whether d is a short DOI (10/<suffix>).
func (d DOI) IsShort() bool { return d.short }

// DirectoryIndicator returns "10" for any non-zero DOI.
func (d DOI) DirectoryIndicator() string {
	if d.IsZero() {
		return ""
	}
	return DirectoryIndicator
}

// Registrant returns the registrant code without the leading dot, e.g.
// "1006" or "1000.10". It is empty for short DOIs.
func (d DOI) Registrant() string { return d.registrant }

// Suffix returns everything after the divider.
func (d DOI) Suffix() string { return d.suffix }

// Key returns the case-folded canonical form. Two DOIs are equal exactly
// when their keys are equal, so Key is the map key to use for DOIs.
func (d DOI) Key() string { return strings.ToLower(d.value) }

// Equal reports whether d and o name the same identifier.
func (d DOI) Equal(o DOI) bool { return d.Key() == o.Key() }

// URI returns the resolver URL of d with the reserved characters of the
// DOI Handbook escaped.
func (d DOI) URI() string {
	if d.IsZero() {
		return ""
	}
	return Resolver + "/" + escape(d.value, false)
}

// ASCIIURI is URI with every non-ASCII and control byte percent-encoded as
// well.
func (d DOI) ASCIIURI() string {
	if d.IsZero() {
		return ""
	}
	return Resolver + "/" + escape(d.value, true)
}

// MarshalText implements encoding.TextMarshaler.
func (d DOI) MarshalText() ([]byte, error) { return []byte(d.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields the
// zero DOI; anything else must pass New.
func (d *DOI) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = DOI{}
		return nil
	}
	v, err := New(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
