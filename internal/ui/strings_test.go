package ui

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  Biscuit  ", 10, "Biscuit"},
		{"Staffordshire Bull Terrier", 10, "Staffor..."},
		{"abcd", 2, "ab"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("/dogs?size=Small&sex=Female&page=3", 16)
	if len([]rune(got)) != 16 {
		t.Fatalf("got %q (%d runes), want 16", got, len([]rune(got)))
	}
	if got[:7] != "/dogs?s" {
		t.Fatalf("got %q, want the path kept", got)
	}
}

func TestPadRightAndOrDash(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight long = %q", got)
	}
	if got := orDash(" "); got != "-" {
		t.Fatalf("orDash blank = %q", got)
	}
}
