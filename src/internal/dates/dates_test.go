package dates

import (
	"regexp"
	"testing"
	"time"
)

func TestFromParts(t *testing.T) {
	cases := []struct {
		in       []int
		year     int
		wantDate string
	}{
		{[]int{2023, 7, 14}, 2023, "2023-07-14"},
		{[]int{2023, 7}, 2023, "2023-07-01"},
		{[]int{1999}, 1999, ""},
		{[]int{2020, 13}, 2020, ""},
		{nil, 0, ""},
		{[]int{0, 1, 1}, 0, ""},
	}
	for _, c := range cases {
		y, d := FromParts(c.in)
		if y != c.year || d != c.wantDate {
			t.Fatalf("FromParts(%v) = (%d, %q), want (%d, %q)", c.in, y, d, c.year, c.wantDate)
		}
	}
}

func TestNowISO(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	got := NowISO()
	re := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	if !re.MatchString(got) {
		t.Fatalf("NowISO not in YYYY-MM-DD: %q", got)
	}
	if got != today {
		t.Fatalf("NowISO not today: got %q want %q", got, today)
	}
}
