package doi

import "strings"

const upperhex = "0123456789ABCDEF"

// escape percent-encodes the characters the DOI Handbook reserves in URLs:
// space " # % < > ?. A literal '%' is always written as %25; the resolver
// decodes the path exactly once. With ascii set, control and non-ASCII
// bytes are encoded too.
func escape(s string, ascii bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case strings.IndexByte(" \"#%<>?", c) >= 0,
			ascii && (c < 0x20 || c >= 0x7f):
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
