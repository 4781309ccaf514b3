package extract

import (
	"regexp"
	"strings"
)

const months = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?`

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	bulletSplitRe = regexp.MustCompile(`\s*[·•]\s*`)
	parenDurRe    = regexp.MustCompile(`(?i)\((?:\s*\d+\s*(?:yrs?|years?|mos?|months?))+\s*\)`)
	monthRangeRe  = regexp.MustCompile(`(?i)` + months + `\s+\d{4}\s*[–—-]\s*(?:` + months + `\s+\d{4}|Present)`)
	yearRangeRe   = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\s*[–—-]\s*(?:(?:19|20)\d{2}\b|Present)`)
	atSplitRe     = regexp.MustCompile(`(?i) at `)
	trailingSepRe = regexp.MustCompile(`[|,;:–—-]+\s*$`)
	trailingTagRe = regexp.MustCompile(`(?i)\b(Present|Formerly)\b.*$`)

	employmentTags = []string{
		"full-time", "part-time", "self-employed", "freelance", "contract",
		"internship", "apprenticeship", "seasonal", "temporary", "permanent",
	}

	dateishRe = regexp.MustCompile(`(?i)^(?:(?:` + months + `\s+)?\d{4}(?:\s*[–—-]\s*(?:(?:` + months + `\s+)?\d{4}|Present|Current))?|(?:\d+\s*(?:yrs?|years?|mos?|months?)\s*)+|Present|Current)$`)
)

// SanitizeCompany strips the clutter LinkedIn attaches to company text in
// experience entries and headlines: employment type, durations, date ranges,
// and "Title at Company" framing. Steps run in a fixed order; date stripping
// must precede the "at" split so a trailing date is never mistaken for part
// of the company name.
func SanitizeCompany(s string) string {
	text := whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if text == "" {
		return ""
	}

	// Bullet-delimited segments carrying employment type or dates are noise,
	// as in "Acme Corp · Full-time · 2 yrs 6 mos".
	if parts := bulletSplitRe.Split(text, -1); len(parts) > 1 {
		kept := parts[:0:0]
		for _, p := range parts {
			if p == "" || isEmploymentTag(p) || dateishRe.MatchString(p) {
				continue
			}
			kept = append(kept, p)
		}
		text = strings.Join(kept, " ")
	}

	text = parenDurRe.ReplaceAllString(text, "")
	text = monthRangeRe.ReplaceAllString(text, "")
	text = yearRangeRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	// "VP of Sales at Acme" keeps the company side of the last " at ".
	if locs := atSplitRe.FindAllStringIndex(text, -1); len(locs) > 0 {
		text = text[locs[len(locs)-1][1]:]
	}
	// "CEO @ Acme" keeps everything after the "@".
	if idx := strings.Index(text, "@"); idx >= 0 {
		text = text[idx+1:]
	}

	text = trailingSepRe.ReplaceAllString(strings.TrimSpace(text), "")
	text = trailingTagRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

func isEmploymentTag(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, tag := range employmentTags {
		if lower == tag {
			return true
		}
	}
	return false
}
