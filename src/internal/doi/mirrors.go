package doi

import (
	"sort"
	"strings"
)

// Resolver is the base of every URI rendered by this package.
const Resolver = "https://doi.org"

// Mirrors is an immutable set of resolver host names. Lookups ignore case,
// a leading "www.", a port and a trailing dot.
type Mirrors struct {
	hosts map[string]struct{}
}

// NewMirrors returns a set holding hosts.
func NewMirrors(hosts ...string) Mirrors {
	m := Mirrors{hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		if h = canonicalHost(h); h != "" {
			m.hosts[h] = struct{}{}
		}
	}
	return m
}

// ExpandMirrors returns the cross product of host families and top level
// domains, e.g. dx.doi × {org, de} = {dx.doi.org, dx.doi.de}.
func ExpandMirrors(families, tlds []string) Mirrors {
	hosts := make([]string, 0, len(families)*len(tlds))
	for _, f := range families {
		for _, t := range tlds {
			hosts = append(hosts, strings.Trim(f, ".")+"."+strings.Trim(t, "."))
		}
	}
	return NewMirrors(hosts...)
}

// DefaultMirrors covers doi.org and the mirrors seen in real references:
// dx.doi, doi.acm and doi.ieeecomputersociety under .org, .net, .com and .de.
func DefaultMirrors() Mirrors {
	return ExpandMirrors(
		[]string{"doi", "dx.doi", "doi.acm", "doi.ieeecomputersociety"},
		[]string{"org", "net", "com", "de"},
	)
}

// DefaultShortcutHosts lists the hosts that resolve bare short DOI tokens,
// as in https://doi.org/gf4gqc.
func DefaultShortcutHosts() Mirrors { return NewMirrors("doi.org") }

// With returns a new set holding the hosts of m and hosts.
func (m Mirrors) With(hosts ...string) Mirrors {
	all := append(m.Hosts(), hosts...)
	return NewMirrors(all...)
}

// Contains reports whether host belongs to the set.
func (m Mirrors) Contains(host string) bool {
	_, ok := m.hosts[canonicalHost(host)]
	return ok
}

// Hosts returns the sorted host names.
func (m Mirrors) Hosts() []string {
	out := make([]string, 0, len(m.hosts))
	for h := range m.hosts {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of hosts.
func (m Mirrors) Len() int { return len(m.hosts) }

func canonicalHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if i := strings.LastIndexByte(h, ':'); i >= 0 && isPort(h[i+1:]) {
		h = h[:i]
	}
	h = strings.TrimSuffix(h, ".")
	return strings.TrimPrefix(h, "www.")
}

func isPort(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
