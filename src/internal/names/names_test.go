package names

import "testing"

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Jane Q":    "J. Q.",
		"":          "",
		"jean-paul": "J.-P.",
		"D. E.":     "D. E.",
		"  Émile ":  "É.",
	}
	for in, want := range cases {
		if got := Initials(in); got != want {
			t.Fatalf("Initials(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestSplitInverted(t *testing.T) {
	fam, giv, ok := SplitInverted("Doe, Jane Q")
	if !ok || fam != "Doe" || giv != "J. Q." {
		t.Fatalf("SplitInverted: got (%q,%q,%v)", fam, giv, ok)
	}
	for _, in := range []string{"World Health Organization", "Doe,", ", Jane"} {
		if _, _, ok := SplitInverted(in); ok {
			t.Fatalf("SplitInverted(%q): expected not inverted", in)
		}
	}
}
