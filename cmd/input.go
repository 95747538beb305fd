package main

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	defaultMaxResults = 50
	maxIndustryLen    = 100
	maxLocationLen    = 200
)

var (
	controlCharsRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	disallowedRe   = regexp.MustCompile(`[^a-zA-Z0-9\s\-'.,&()]`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
)

// sanitizeInput strips control characters and anything outside the
// letters/digits/address-punctuation whitelist, collapses runs of
// whitespace, and caps the length.
func sanitizeInput(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	if len(text) > maxLength {
		text = text[:maxLength]
	}
	text = controlCharsRe.ReplaceAllString(text, "")
	text = disallowedRe.ReplaceAllString(text, "")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// validateSearchTerms checks the post-sanitization industry and location.
func validateSearchTerms(industry, location string) error {
	if len(industry) < 2 {
		return eris.New("industry is required (min 2 characters)")
	}
	if len(location) < 2 {
		return eris.New("location is required (min 2 characters)")
	}
	return nil
}

// clampMaxResults bounds the requested result count to [1,100], defaulting
// when unset.
func clampMaxResults(n int) int {
	switch {
	case n == 0:
		return defaultMaxResults
	case n < 1:
		return 1
	case n > 100:
		return 100
	}
	return n
}
