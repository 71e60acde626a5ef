package derive

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-06-15", true},
		{"2026-06-15T09:30:00Z", true},
		{"2026-06-15T09:30:00+02:00", true},
		{"15/06/2026", false},
		{"", false},
		{"garbage", false},
	}
	for _, c := range cases {
		if _, ok := ParseDate(c.in); ok != c.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", c.in, ok, c.ok)
		}
	}
}

func TestParseDateValues(t *testing.T) {
	d, ok := ParseDate("2026-06-15")
	if !ok || d.Year() != 2026 || int(d.Month()) != 6 || d.Day() != 15 {
		t.Fatalf("unexpected parse result: %v %v", d, ok)
	}
}
