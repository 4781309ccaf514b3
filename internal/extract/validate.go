package extract

import (
	"regexp"
	"strings"
)

// UI noise that shows up where a person's name should be, including sidebar
// and recommendation section headers and ad controls.
var invalidPersonNames = toSet([]string{
	"linkedin", "home", "my network", "jobs", "messaging", "notifications",
	"me", "work", "learn", "profile", "sign in", "join now", "settings", "help",
	"explore premium profiles", "more profiles for you", "people also viewed",
	"people you may know", "you might like", "pages for you", "similar profiles",
	"view similar profiles", "why am i seeing this ad", "manage your ad preferences",
	"hide or report this ad", "tell us why you don't want to see this",
})

var invalidCompanyNames = toSet([]string{
	"linkedin", "see more", "show less", "company", "about", "follow",
	"connect", "message", "more", "less", "view", "edit", "add", "remove",
	"save", "share",
})

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

var nameCharRe = regexp.MustCompile(`[a-zA-Z\s\-']`)

// Connection-degree markers that appear next to names ("· 1st", "2nd degree").
var connectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^·\s*(1st|2nd|3rd)$`),
	regexp.MustCompile(`(?i)^(1st|2nd|3rd)\s*degree$`),
	regexp.MustCompile(`^·\s*$`),
	regexp.MustCompile(`(?i)^\d+(st|nd|rd|th)$`),
}

var bulletOnlyRe = regexp.MustCompile(`^[·•○●\s]+$`)

// Counter and contact-info lines that are not company names.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\d+\s+connections?$`),
	regexp.MustCompile(`(?i)^\d+\s+followers?$`),
	regexp.MustCompile(`(?i)^contact\s+info$`),
	regexp.MustCompile(`(?i)^profile$`),
}

// Modal, ad-feedback, and preference-dialog text.
var uiTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)dialog`),
	regexp.MustCompile(`(?i)window`),
	regexp.MustCompile(`(?i)modal`),
	regexp.MustCompile(`(?i)manage.*preferences`),
	regexp.MustCompile(`(?i)hide.*report`),
	regexp.MustCompile(`(?i)feedback`),
	regexp.MustCompile(`(?i)annoying`),
	regexp.MustCompile(`(?i)don't want`),
	regexp.MustCompile(`(?i)tell us why`),
	regexp.MustCompile(`(?i)your experience`),
	regexp.MustCompile(`(?i)community policies`),
	regexp.MustCompile(`(?i)let us know`),
	regexp.MustCompile(`(?i)see this ad`),
	regexp.MustCompile(`(?i)improve`),
}

// IsValidPersonName reports whether s plausibly is a person's full name.
// A name needs a separable first and last token, so single words are
// rejected even when they are real names.
func IsValidPersonName(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return false
	}
	if !strings.Contains(trimmed, " ") {
		return false
	}
	if _, bad := invalidPersonNames[strings.ToLower(trimmed)]; bad {
		return false
	}

	// Mostly letters, spaces, hyphens, apostrophes.
	matches := nameCharRe.FindAllString(trimmed, -1)
	ratio := float64(len(matches)) / float64(len(trimmed))
	return ratio >= 0.8
}

// IsValidCompanyName reports whether s plausibly is an isolated company name
// rather than a headline, counter, connection marker, or UI fragment.
func IsValidCompanyName(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 || len(trimmed) > 200 {
		return false
	}

	for _, p := range connectionPatterns {
		if p.MatchString(trimmed) {
			return false
		}
	}
	if bulletOnlyRe.MatchString(trimmed) {
		return false
	}
	if _, bad := invalidCompanyNames[strings.ToLower(trimmed)]; bad {
		return false
	}
	for _, p := range locationPatterns {
		if p.MatchString(trimmed) {
			return false
		}
	}
	for _, p := range uiTextPatterns {
		if p.MatchString(trimmed) {
			return false
		}
	}

	// Headline separators mean this is "CEO @ Acme | Author", not a company.
	if strings.Contains(trimmed, "@") || strings.Contains(trimmed, "|") {
		return false
	}

	return true
}
