// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locale

import "testing"

func TestResolve(t *testing.T) {
	r := NewResolver("fr_CA", []string{"fr_CA", "en_US"})

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty token", "", "fr_CA"},
		{"recognized unchanged", "en_US", "en_US"},
		{"default unchanged", "fr_CA", "fr_CA"},
		{"regional variant collapses to default", "fr_FR", "fr_CA"},
		{"bare language matching default", "fr", "fr_CA"},
		{"bare language other", "de", "de_DE"},
		{"locale string other language", "es_MX", "es_ES"},
		{"mixed case", "EN", "en_US"},
		{"unrecognizable", "zz_ZZ", "fr_CA"},
		{"garbage", "!!", "fr_CA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.token); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestResolveUnresolvableDefault(t *testing.T) {
	// A journal default outside the registry still wins every fallback.
	r := NewResolver("xx_XX", nil)
	if got := r.Resolve("zz"); got != "xx_XX" {
		t.Errorf("Resolve(zz) = %q, want xx_XX", got)
	}
	if got := r.Resolve(""); got != "xx_XX" {
		t.Errorf("Resolve(\"\") = %q, want xx_XX", got)
	}
}

func TestCanonical(t *testing.T) {
	if !Canonical("fr_CA") {
		t.Error("fr_CA should be canonical")
	}
	if Canonical("fr") {
		t.Error("bare fr should not be canonical")
	}
	if Canonical("zz_ZZ") {
		t.Error("zz_ZZ should not be canonical")
	}
}

func TestISO3RoundTrip(t *testing.T) {
	iso3, ok := ISO3("en_US")
	if !ok || iso3 != "eng" {
		t.Fatalf("ISO3(en_US) = %q, %v", iso3, ok)
	}
	id, ok := FromISO3("eng")
	if !ok || id != "en_US" {
		t.Fatalf("FromISO3(eng) = %q, %v", id, ok)
	}
	if _, ok := FromISO3("zzz"); ok {
		t.Error("FromISO3(zzz) should not resolve")
	}
}

func TestDisplayName(t *testing.T) {
	if name := DisplayName("fr_CA"); name == "" || name == "fr_CA" {
		t.Errorf("DisplayName(fr_CA) = %q, want a rendered name", name)
	}
	// Unparseable identifiers fall back to themselves.
	if name := DisplayName("!!"); name != "!!" {
		t.Errorf("DisplayName(!!) = %q, want !!", name)
	}
}
