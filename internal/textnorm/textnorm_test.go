package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalizeTurkishCasing(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Saat Kaç?", "saat kaç"},
		{"İstanbul", "istanbul"},
		{"IŞIK", "ışık"},
		{"ÇALIŞMA ÖNERİSİ VER", "çalışma önerisi ver"},
		{"ĞÜŞÖÇ", "ğüşöç"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePunctuationAndWhitespace(t *testing.T) {
	got := Normalize("  Bugün, ayın   kaçı?!  ")
	if got != "bugün ayın kaçı" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if Normalize("...!?") != "" {
		t.Fatalf("punctuation-only input should normalize to empty")
	}
	if Normalize("5 artı 3") != "5 artı 3" {
		t.Fatalf("digits must survive normalization")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Merhaba, NASILSIN?",
		"yarın saat 9'da BANA hatırlat",
		"İĞÜŞÖÇ ığüşöç 123 !!!",
		"",
		"   ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestTokensAndWordSet(t *testing.T) {
	tokens := Tokens("Bunu not al, lütfen not al")
	want := []string{"bunu", "not", "al", "lütfen", "not", "al"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("Tokens = %v, want %v", tokens, want)
	}

	set := WordSet("not al not al")
	if len(set) != 2 {
		t.Fatalf("WordSet should deduplicate, got %v", set)
	}
	if _, ok := set["not"]; !ok {
		t.Fatalf("WordSet missing token 'not'")
	}
}
