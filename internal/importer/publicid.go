// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"net/url"
	"regexp"
	"strings"
)

// ID types a parser may report in its public identifier set.
const (
	IDTypeDOI      = "doi"
	IDTypeURI      = "uri"
	IDTypeInternal = "internal"
)

// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// doiPrefixes are resolver spellings stripped before DOI matching.
var doiPrefixes = []string{
	"doi:",
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
}

// ClassifyID determines an identifier's type and returns its normalized
// form. DOIs lose any resolver prefix and are lower-cased so equivalent
// spellings compare equal; URLs and internal identifiers pass through
// trimmed.
func ClassifyID(value string) (string, string) {
	v := strings.TrimSpace(value)

	stripped := v
	for _, p := range doiPrefixes {
		if strings.HasPrefix(strings.ToLower(stripped), p) {
			stripped = stripped[len(p):]
			break
		}
	}
	if doiPattern.MatchString(stripped) {
		return IDTypeDOI, strings.ToLower(stripped)
	}

	if u, err := url.Parse(v); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return IDTypeURI, v
	}

	return IDTypeInternal, v
}

// NormalizeID returns the canonical spelling used for duplicate checks.
// DOI values are re-run through classification; other types are trimmed.
func NormalizeID(idType, value string) string {
	if idType == IDTypeDOI {
		_, normalized := ClassifyID(value)
		return normalized
	}
	return strings.TrimSpace(value)
}
