package doi

import (
	"net/url"
	"regexp"
	"strings"
)

// Extractor recognizes DOIs against a fixed set of resolver mirrors. It is
// immutable once built and safe for concurrent use.
type Extractor struct {
	mirrors  Mirrors
	shortcut Mirrors
	matchers []Matcher
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMirrors replaces the resolver hosts accepted in URL forms.
func WithMirrors(m Mirrors) Option { return func(x *Extractor) { x.mirrors = m } }

// WithShortcutHosts replaces the hosts that resolve bare short DOI tokens.
func WithShortcutHosts(m Mirrors) Option { return func(x *Extractor) { x.shortcut = m } }

// NewExtractor returns an Extractor using DefaultMirrors unless overridden.
func NewExtractor(opts ...Option) *Extractor {
	x := &Extractor{mirrors: DefaultMirrors(), shortcut: DefaultShortcutHosts()}
	for _, o := range opts {
		o(x)
	}
	x.matchers = []Matcher{
		PlainMatcher{},
		PrefixedMatcher{},
		URLMatcher{Mirrors: x.mirrors},
		ShortcutMatcher{Hosts: x.shortcut},
		BareShortMatcher{},
	}
	return x
}

var defaultExtractor = NewExtractor()

// Default returns the Extractor behind the package level functions.
func Default() *Extractor { return defaultExtractor }

// Mirrors returns the resolver hosts x accepts.
func (x *Extractor) Mirrors() Mirrors { return x.mirrors }

// Matchers returns the free text matchers in priority order.
func (x *Extractor) Matchers() []Matcher {
	return append([]Matcher(nil), x.matchers...)
}

// New is the strict constructor, see the package level New. Line breaks and
// tabs inside raw are kept, so they fail validation.
func (x *Extractor) New(raw string) (DOI, error) {
	s := strings.TrimSpace(dropNoise(raw))
	if isBlank(s) {
		return DOI{}, &ParseError{Input: raw, Err: ErrEmptyInput}
	}
	d, err := x.recognize(s)
	if err != nil {
		return DOI{}, &ParseError{Input: raw, Err: err}
	}
	return d, nil
}

// Parse sanitizes raw and reports whether it is a DOI.
func (x *Extractor) Parse(raw string) (DOI, bool) {
	s := Sanitize(raw)
	if isBlank(s) {
		return DOI{}, false
	}
	d, err := x.New(s)
	return d, err == nil
}

// Coerce keeps raw as it is when New accepts it and falls back to Parse
// otherwise. A stored canonical value like "10.1006/rwei.1999 .0001" keeps
// its inner space, which Parse would remove.
func (x *Extractor) Coerce(raw string) (DOI, bool) {
	if d, err := x.New(raw); err == nil {
		return d, true
	}
	return x.Parse(raw)
}

// FindInText tries each matcher in order and returns the first candidate
// that validates. Invisible characters are dropped from text up front;
// every candidate is sanitized before validation.
func (x *Extractor) FindInText(text string) (DOI, bool) {
	text = dropNoise(text)
	for _, m := range x.matchers {
		for _, c := range m.Candidates(text) {
			if d, err := x.New(Sanitize(c)); err == nil {
				return d, true
			}
		}
	}
	return DOI{}, false
}

var urlScheme = regexp.MustCompile(`(?i)^https?://`)

func (x *Extractor) recognize(s string) (DOI, error) {
	if loc := urlScheme.FindStringIndex(s); loc != nil {
		return x.fromURL(s[:loc[1]], s[loc[1]:])
	}
	s = strings.TrimPrefix(s, "/")
	if host, path, ok := strings.Cut(s, "/"); ok && x.mirrors.Contains(host) {
		return x.fromResolverPath(host, path)
	}
	return validateIdentifier(s)
}

// fromURL handles scheme://host/path. A known mirror must carry the DOI as
// its whole path; any other host may only carry a full DOI that starts a
// path segment.
func (x *Extractor) fromURL(scheme, rest string) (DOI, error) {
	host, path, _ := strings.Cut(rest, "/")
	u, err := url.Parse(strings.ToLower(scheme) + host)
	if err != nil || u.Hostname() == "" {
		return DOI{}, ErrMalformedURI
	}
	if x.mirrors.Contains(u.Host) {
		return x.fromResolverPath(u.Host, path)
	}
	p, err := decodePath(path)
	if err != nil {
		return DOI{}, err
	}
	for i := 0; i < len(p); i++ {
		if i > 0 && p[i-1] != '/' {
			continue
		}
		if d, err := ValidateFull(p[i:]); err == nil {
			return d, nil
		}
		if _, err := ValidateShort(p[i:]); err == nil {
			return DOI{}, ErrAmbiguousEmbeddedMatch
		}
	}
	return DOI{}, ErrMalformedURI
}

func (x *Extractor) fromResolverPath(host, path string) (DOI, error) {
	p, err := decodePath(path)
	if err != nil {
		return DOI{}, err
	}
	d, err := validateIdentifier(p)
	if err == nil {
		return d, nil
	}
	if x.shortcut.Contains(host) && shortcutToken.MatchString(p) {
		return ValidateShort(DirectoryIndicator + "/" + p)
	}
	return DOI{}, err
}

var shortcutToken = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// decodePath drops query and fragment and resolves percent escapes, so
// %2F becomes a divider and %25 a literal percent sign.
func decodePath(path string) (string, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	p, err := url.PathUnescape(path)
	if err != nil || p == "" {
		return "", ErrMalformedURI
	}
	return p, nil
}
