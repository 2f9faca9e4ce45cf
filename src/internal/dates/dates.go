package dates

import (
	"fmt"
	"time"
)

// NowISO returns the current UTC date as YYYY-MM-DD.
func NowISO() string { return time.Now().UTC().Format("2006-01-02") }

// FromParts converts CSL date-parts ([year, month, day], trailing parts
// optional) into a year and a YYYY-MM-DD date. A missing day becomes the
// first of the month; a bare year yields no date.
func FromParts(parts []int) (int, string) {
	if len(parts) == 0 || parts[0] <= 0 {
		return 0, ""
	}
	y := parts[0]
	switch {
	case len(parts) >= 3 && validMonth(parts[1]) && parts[2] >= 1 && parts[2] <= 31:
		return y, fmt.Sprintf("%04d-%02d-%02d", y, parts[1], parts[2])
	case len(parts) >= 2 && validMonth(parts[1]):
		return y, fmt.Sprintf("%04d-%02d-01", y, parts[1])
	}
	return y, ""
}

func validMonth(m int) bool { return m >= 1 && m <= 12 }
