package doi

import (
	"regexp"
	"strings"
)

var (
	// 10.<registrant>[.<sub>...]<divider><suffix>; the suffix may contain
	// anything but control characters.
	fullPattern = regexp.MustCompile(`^10((?:\.[0-9]+)+)([/:%])([^\x00-\x1f\x7f]+)$`)
	// 10<divider><token>; a short DOI suffix never contains a slash.
	shortPattern = regexp.MustCompile(`^10[/:%]([a-zA-Z0-9]+)$`)
	// scheme tokens accepted in front of an identifier
	schemePattern = regexp.MustCompile(`(?i)^(?:urn:)?(?:doi:)?`)
)

// ValidateFull accepts s only if the whole of s is a full DOI.
func ValidateFull(s string) (DOI, error) {
	m := fullPattern.FindStringSubmatch(s)
	if m == nil {
		return DOI{}, classify(s)
	}
	return DOI{value: s, registrant: m[1][1:], suffix: m[3]}, nil
}

// ValidateShort accepts s only if the whole of s is a short DOI.
func ValidateShort(s string) (DOI, error) {
	m := shortPattern.FindStringSubmatch(s)
	if m == nil {
		return DOI{}, classify(s)
	}
	return DOI{value: s, suffix: m[1], short: true}, nil
}

// validateIdentifier strips an optional urn:/doi: scheme and accepts a full
// or short DOI.
func validateIdentifier(s string) (DOI, error) {
	s = strings.TrimSpace(schemePattern.ReplaceAllString(s, ""))
	if d, err := ValidateFull(s); err == nil {
		return d, nil
	}
	return ValidateShort(s)
}

// classify explains why s is neither a full nor a short DOI. The first
// failing rule wins.
func classify(s string) error {
	if isBlank(s) {
		return ErrEmptyInput
	}
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	if n == 0 {
		if embeddedPattern.MatchString(s) {
			return ErrAmbiguousEmbeddedMatch
		}
		return ErrInvalidDirectoryIndicator
	}
	if s[:n] != DirectoryIndicator {
		return ErrInvalidDirectoryIndicator
	}
	rest := s[n:]
	switch {
	case rest == "":
		return ErrMissingDivider
	case rest[0] == '.':
		i := 0
		for i < len(rest) && rest[i] == '.' && i+1 < len(rest) && isDigit(rest[i+1]) {
			i++
			for i < len(rest) && isDigit(rest[i]) {
				i++
			}
		}
		if i == 0 || i == len(rest) || !isDivider(rest[i]) {
			return ErrMissingDivider
		}
		// shape is right but the suffix is empty or carries control bytes
		return ErrAmbiguousEmbeddedMatch
	case isDivider(rest[0]):
		// 10/2021/01, 10/gf4gqc end
		return ErrAmbiguousEmbeddedMatch
	default:
		return ErrMissingDivider
	}
}

var embeddedPattern = regexp.MustCompile(`10(?:\.[0-9]+)*[/:%]`)

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDivider(c byte) bool { return c == '/' || c == ':' || c == '%' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
