// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locale canonicalizes free-form locale tokens against a journal's
// locale set. Implements: prd003-locale.
package locale

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// entry binds a canonical locale identifier to the ISO 639 3-letter code of
// its language. Order matters: the first entry for a language is the one
// recovered when only a 3-letter code is known.
type entry struct {
	id   string
	iso3 string
}

// registry lists the canonical locale identifiers the publishing side
// recognizes, in ll_RR form.
var registry = []entry{
	{"en_US", "eng"},
	{"fr_FR", "fra"},
	{"fr_CA", "fra"},
	{"de_DE", "deu"},
	{"es_ES", "spa"},
	{"pt_BR", "por"},
	{"pt_PT", "por"},
	{"it_IT", "ita"},
	{"nl_NL", "nld"},
	{"ru_RU", "rus"},
	{"zh_CN", "zho"},
	{"ja_JP", "jpn"},
	{"ko_KR", "kor"},
	{"ar_SA", "ara"},
	{"tr_TR", "tur"},
	{"pl_PL", "pol"},
	{"cs_CZ", "ces"},
	{"el_GR", "ell"},
	{"fi_FI", "fin"},
	{"sv_SE", "swe"},
	{"da_DK", "dan"},
	{"hu_HU", "hun"},
	{"ro_RO", "ron"},
	{"uk_UA", "ukr"},
	{"vi_VN", "vie"},
	{"id_ID", "ind"},
	{"fa_IR", "fas"},
	{"he_IL", "heb"},
	{"hi_IN", "hin"},
	{"ca_ES", "cat"},
}

// Canonical reports whether id is a registered canonical locale identifier.
func Canonical(id string) bool {
	for _, e := range registry {
		if e.id == id {
			return true
		}
	}
	return false
}

// FromISO3 returns the canonical locale identifier registered for a 3-letter
// language code.
func FromISO3(code string) (string, bool) {
	for _, e := range registry {
		if e.iso3 == code {
			return e.id, true
		}
	}
	return "", false
}

// ISO3 returns the 3-letter language code for a canonical locale identifier,
// consulting the registry first and falling back to tag parsing.
func ISO3(id string) (string, bool) {
	for _, e := range registry {
		if e.id == id {
			return e.iso3, true
		}
	}
	return toISO3(strings.ToLower(id))
}

// DisplayName renders a locale identifier in its own language, for listings.
func DisplayName(id string) string {
	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return id
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return id
}

// Resolver maps free-form locale tokens onto one journal's locales. The
// journal's own default wins whenever a token's language matches it, so
// regional variants collapse to the journal's regional choice.
type Resolver struct {
	def       string
	defISO3   string
	supported map[string]struct{}
}

// NewResolver builds a resolver for a journal with the given default locale
// and recognized locale set. The default is always part of the set.
func NewResolver(defaultLocale string, supported []string) *Resolver {
	r := &Resolver{
		def:       defaultLocale,
		supported: make(map[string]struct{}, len(supported)+1),
	}
	r.supported[defaultLocale] = struct{}{}
	for _, l := range supported {
		r.supported[l] = struct{}{}
	}
	if iso3, ok := ISO3(defaultLocale); ok {
		r.defISO3 = iso3
	}
	return r
}

// Default returns the journal default locale the resolver falls back to.
func (r *Resolver) Default() string {
	return r.def
}

// Resolve canonicalizes a locale token:
//
//  1. an empty token resolves to the journal default;
//  2. a token the journal already recognizes is returned unchanged;
//  3. otherwise the lower-cased token is reduced to a 3-letter language
//     code, trying it as a bare language code first and as a full locale
//     string second;
//  4. a code whose language matches the default locale's language resolves
//     to the default, region notwithstanding;
//  5. any other code resolves to its registered canonical identifier;
//  6. every failure resolves to the journal default.
func (r *Resolver) Resolve(token string) string {
	if token == "" {
		return r.def
	}
	if _, ok := r.supported[token]; ok {
		return token
	}
	iso3, ok := toISO3(strings.ToLower(token))
	if !ok {
		return r.def
	}
	if iso3 == r.defISO3 {
		return r.def
	}
	if id, ok := FromISO3(iso3); ok {
		return id
	}
	return r.def
}

func toISO3(token string) (string, bool) {
	if b, err := language.ParseBase(token); err == nil {
		return b.ISO3(), true
	}
	tag, err := language.Parse(strings.ReplaceAll(token, "_", "-"))
	if err != nil {
		return "", false
	}
	b, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	return b.ISO3(), true
}
