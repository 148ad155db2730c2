package compliance

import "testing"

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"strict":       Strict,
		"STRICT":       Strict,
		" permissive ": Permissive,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q): got %v want %v", in, got, want)
		}
	}
	if _, err := ParseMode("lenient"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestMode_ZeroValueIsStrict(t *testing.T) {
	var m Mode
	if m != Strict {
		t.Fatalf("zero value: got %v want strict", m)
	}
	if Permissive.String() != "permissive" {
		t.Fatalf("String(): got %q", Permissive.String())
	}
}
