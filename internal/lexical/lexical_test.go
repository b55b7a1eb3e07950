package lexical

import (
	"math"
	"testing"
)

func TestKeywords(t *testing.T) {
	set := Keywords("The login page crashes when the user clicks OK!")

	for _, want := range []string{"login", "page", "crashes", "user", "clicks"} {
		if _, ok := set[want]; !ok {
			t.Errorf("expected keyword %q", want)
		}
	}
	// Stopwords and short tokens are dropped.
	for _, dropped := range []string{"the", "when", "ok"} {
		if _, ok := set[dropped]; ok {
			t.Errorf("keyword %q should have been dropped", dropped)
		}
	}
}

func TestKeywordsNormalizes(t *testing.T) {
	a := Keywords("LOGIN-PAGE crash")
	b := Keywords("login page CRASH")
	if Jaccard(a, b) != 1.0 {
		t.Errorf("case and punctuation should not affect keywords: %v vs %v", a, b)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "login crash mobile", b: "login crash mobile", want: 1.0},
		{name: "disjoint", a: "login crash", b: "database schema", want: 0.0},
		{name: "partial overlap", a: "login crash mobile", b: "login crash desktop", want: 0.5},
		{name: "both empty", a: "", b: "", want: 0.0},
		{name: "one empty", a: "login", b: "", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(Keywords(tt.a), Keywords(tt.b))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapCoefficient(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "login crash mobile", b: "login crash mobile", want: 1.0},
		{name: "disjoint", a: "login crash", b: "database schema", want: 0.0},
		{name: "subset", a: "login crash", b: "login crash mobile safari", want: 1.0},
		{name: "shared subject words", a: "login button unresponsive", b: "login button nothing clicked", want: 2.0 / 3.0},
		{name: "both empty", a: "", b: "", want: 0.0},
		{name: "one empty", a: "login", b: "", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapCoefficient(Keywords(tt.a), Keywords(tt.b))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("OverlapCoefficient = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	set := Set([]string{"Backend", " auth ", "", "AUTH"})
	if len(set) != 2 {
		t.Errorf("Set = %v, want 2 entries", set)
	}
	if _, ok := set["backend"]; !ok {
		t.Error("expected lowercased entry")
	}
	if _, ok := set["auth"]; !ok {
		t.Error("expected trimmed entry")
	}
}

func TestFuzzyContains(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"The login page crashes", "login", true},
		{"The Login Page crashes", "login", true},
		{"Multiple crashes reported", "crash", true},     // substring of "crashes"
		{"The bug affects every database", "databases", true}, // plural tolerance
		{"Nothing relevant here", "login", false},
		{"anything", "", false},
	}

	for _, tt := range tests {
		if got := FuzzyContains(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("FuzzyContains(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}
