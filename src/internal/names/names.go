package names

import (
	"strings"
)

// Initials converts a given name string into spaced initials: "Jane Q" -> "J. Q.".
// Hyphenated names keep the hyphen: "Jean-Paul" -> "J.-P.".
func Initials(given string) string {
	var out []string
	for _, w := range strings.Fields(given) {
		var parts []string
		for _, p := range strings.Split(w, "-") {
			r := []rune(strings.TrimSuffix(p, "."))
			if len(r) == 0 {
				continue
			}
			parts = append(parts, strings.ToUpper(string(r[0]))+".")
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, "-"))
		}
	}
	return strings.Join(out, " ")
}

// SplitInverted splits "Family, Given Names" into the family name and given
// initials. ok is false when name is not in inverted form.
func SplitInverted(name string) (family, givenInitials string, ok bool) {
	family, given, found := strings.Cut(name, ",")
	family = strings.TrimSpace(family)
	if !found || family == "" || strings.TrimSpace(given) == "" {
		return "", "", false
	}
	return family, Initials(given), true
}
