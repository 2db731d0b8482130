package util

import "testing"

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"plain":            "plain",
		"*bold* `code`":    "bold code",
		"[link](x)":        "link(x)",
		"mix *[a]* `b` ok": "mix a b ok",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("a very long token name", 10); got != "a very ..." {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("unexpected %q", got)
	}
}
