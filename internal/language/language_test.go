package language

import (
	"reflect"
	"testing"
)

func TestBaseCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"english", "en"},
		{"English", "en"},
		{"en-US", "en"},
		{"pt-BR", "pt"},
		{"fre", "fr"},
		{"fra", "fr"},
		{"ger", "de"},
		{"he", "he"},
		{"heb", "he"},
		{" en ", "en"},
		{"", ""},
		{"not-a-language", ""},
	}
	for _, tc := range cases {
		if got := BaseCode(tc.in); got != tc.want {
			t.Errorf("BaseCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMatch(t *testing.T) {
	cases := []struct {
		tag    string
		filter []string
		want   bool
	}{
		{"en", nil, true},
		{"anything", nil, true},
		{"en", []string{"en"}, true},
		{"en-US", []string{"en"}, true},
		{"en", []string{"eng"}, true},
		{"en", []string{"fr", "en"}, true},
		{"fr", []string{"en"}, false},
		{"", []string{"en"}, false},
		{"zz-XX", []string{"en"}, false},
	}
	for _, tc := range cases {
		if got := Match(tc.tag, tc.filter); got != tc.want {
			t.Errorf("Match(%q, %v) = %v, want %v", tc.tag, tc.filter, got, tc.want)
		}
	}
}

func TestNormalizeList(t *testing.T) {
	got := NormalizeList([]string{"EN", "eng", "fr", " ", "pt-BR", "fr"})
	want := []string{"en", "fr", "pt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
	if NormalizeList(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("en"); got != "English" {
		t.Fatalf("DisplayName(en) = %q", got)
	}
	if got := DisplayName("fre"); got != "French" {
		t.Fatalf("DisplayName(fre) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName empty = %q", got)
	}
	if got := DisplayName("xx"); got != "XX" {
		t.Fatalf("DisplayName(xx) = %q", got)
	}
}
