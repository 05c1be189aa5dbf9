package naming_test

import (
	"testing"

	"blueprints/internal/naming"
)

func TestFolders(t *testing.T) {
	cases := []struct {
		in     string
		letter string
		clean  string
	}{
		{"The Expanse (2015)", "E", "The Expanse (2015)"},
		{"Demon Slayer: Kimetsu no Yaiba (2018)", "D", "Demon Slayer - Kimetsu no Yaiba (2018)"},
		{"an Idiot Abroad (2010)", "I", "an Idiot Abroad (2010)"},
		{"A Series of Unfortunate Events (2017)", "S", "A Series of Unfortunate Events (2017)"},
		{"Theater <Live> (2001)", "T", "Theater Live (2001)"},
		{"What If...? (2021)", "W", "What If...! (2021)"},
		{`AC/DC "Live" | Back\Forth * (1999)`, "A", "AC+DC Live  Back+Forth - (1999)"},
		{"9-1-1 (2018)", "9", "9-1-1 (2018)"},
		{"élite (2018)", "É", "élite (2018)"},
		{"", "", ""},
	}
	for _, tc := range cases {
		letter, clean := naming.Folders(tc.in)
		if letter != tc.letter || clean != tc.clean {
			t.Fatalf("Folders(%q) = (%q, %q), want (%q, %q)", tc.in, letter, clean, tc.letter, tc.clean)
		}
	}
}

func TestFoldersIsIdempotent(t *testing.T) {
	inputs := []string{
		"The Expanse (2015)",
		"Demon Slayer: Kimetsu no Yaiba (2018)",
		"Who? What? Where? (1999)",
		`Slash/Back\Slash (2000)`,
		"Mr. Robot (2015)",
	}
	for _, in := range inputs {
		letter, clean := naming.Folders(in)
		letter2, clean2 := naming.Folders(clean)
		if letter != letter2 || clean != clean2 {
			t.Fatalf("Folders not idempotent for %q: (%q,%q) then (%q,%q)", in, letter, clean, letter2, clean2)
		}
	}
}

func TestSplitSeriesFolder(t *testing.T) {
	name, year, ok := naming.SplitSeriesFolder("Demon Slayer - Kimetsu no Yaiba (2018)")
	if !ok || name != "Demon Slayer - Kimetsu no Yaiba" || year != 2018 {
		t.Fatalf("unexpected split: %q %d %v", name, year, ok)
	}
	for _, bad := range []string{"No Year", "Short (18)", "Trailing (2018) ", "(2018)"} {
		if _, _, ok := naming.SplitSeriesFolder(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
	if got := naming.Display("The Expanse", 2015); got != "The Expanse (2015)" {
		t.Fatalf("unexpected display %q", got)
	}
}
