package geocode

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Paris", "paris"},
		{"  paris  ", "paris"},
		{"\tNew York City\n", "new york city"},
		{"TOKYO", "tokyo"},
		{"São Paulo", "são paulo"},
		// Interior punctuation and spacing stay untouched; collapsing them
		// could merge distinct places.
		{"St. John's", "st. john's"},
		{"san  jose", "san  jose"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
