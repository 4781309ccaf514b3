package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ProfilePerson extracts the profile owner's full name. Order: JSON-LD,
// selector tiers, any h1 in main, then scored paragraphs.
func (e *Extractor) ProfilePerson(doc *goquery.Document) (string, bool) {
	if r := FromJSONLD(doc); IsValidPersonName(r.PersonName) {
		return r.PersonName, true
	}

	main := mainScope(doc)
	accept := func(raw string) (string, bool) {
		trimmed := strings.TrimSpace(raw)
		return trimmed, IsValidPersonName(trimmed)
	}
	if name, ok := e.firstValid(main, profileNameSelectors, accept); ok {
		return name, true
	}

	var h1Name string
	main.Find("h1").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if InModal(h) {
			return true
		}
		if name := strings.TrimSpace(h.Text()); IsValidPersonName(name) {
			h1Name = name
			return false
		}
		return true
	})
	if h1Name != "" {
		return h1Name, true
	}

	return e.scoredPersonName(main)
}

var (
	employmentLeadRe = regexp.MustCompile(`(?i)^(Full-time|Part-time|Contract|Freelance|Self-employed)\s*·`)
	companyTypeRe    = regexp.MustCompile(`(?i)^(.+?)\s*·\s*(Full-time|Part-time|Contract|Freelance|Self-employed)`)
	atCompanyRe      = regexp.MustCompile(`(?i)(?:\bat\s+|@\s+)([^\n]+?)(?:\n|Formerly|·|$)`)
)

// ProfileCompany extracts the profile owner's current company. The person's
// own name is rejected wherever it shows up, which happens when the header
// card and the first experience entry interleave. Order: JSON-LD, experience
// section patterns, selector tiers, then scored paragraphs.
func (e *Extractor) ProfileCompany(doc *goquery.Document, personName string) (string, bool) {
	if r := FromJSONLD(doc); r.CompanyName != "" && IsValidCompanyName(r.CompanyName) {
		return r.CompanyName, true
	}

	main := mainScope(doc)
	experience := main.Find(`[data-view-name="profile-card-experience"]`).First()

	if experience.Length() > 0 {
		if company, ok := e.experienceCompany(experience, personName); ok {
			return company, true
		}
	}

	// Selector tiers run against the experience section when it exists.
	// Against all of main they pick up About-section mentions of past
	// employers.
	scope := experience
	if scope.Length() == 0 {
		scope = main
	}
	accept := func(raw string) (string, bool) {
		cleaned := SanitizeCompany(raw)
		if matchesPerson(cleaned, personName) {
			return "", false
		}
		return cleaned, IsValidCompanyName(cleaned)
	}
	if company, ok := e.firstValid(scope, profileCompanySelectors, accept); ok {
		return company, true
	}

	return e.scoredCompanyName(main, personName)
}

// experienceCompany scans experience-entry paragraphs for the three shapes
// LinkedIn renders:
//
//	"Full-time · 2 yrs 6 mos"  with the company in the previous paragraph
//	"Acme Corp · Full-time"
//	"Chief Executive Officer at Acme Corp"
func (e *Extractor) experienceCompany(experience *goquery.Selection, personName string) (string, bool) {
	var company string
	prev := ""

	experience.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if InModal(p) || InSidebar(p, e.ancestorScan) {
			return true
		}
		text := strings.TrimSpace(p.Text())

		if employmentLeadRe.MatchString(text) && prev != "" {
			if c := prev; !matchesPerson(c, personName) && IsValidCompanyName(c) {
				company = c
				return false
			}
		}

		if m := companyTypeRe.FindStringSubmatch(text); m != nil {
			if c := strings.TrimSpace(m[1]); !matchesPerson(c, personName) && IsValidCompanyName(c) {
				company = c
				return false
			}
		}

		if m := atCompanyRe.FindStringSubmatch(text); m != nil {
			if c := SanitizeCompany(m[1]); !matchesPerson(c, personName) && IsValidCompanyName(c) {
				company = c
				return false
			}
		}

		prev = text
		return true
	})

	if company != "" {
		zap.L().Debug("extract: company from experience section", zap.String("company", company))
	}
	return company, company != ""
}

func matchesPerson(s, personName string) bool {
	return personName != "" && strings.EqualFold(strings.TrimSpace(s), personName)
}

// PageText returns the text AI extraction reads: the profile header section
// when present, otherwise all of main, capped at maxChars.
func PageText(doc *goquery.Document, maxChars int) string {
	main := mainScope(doc)
	text := ""
	if section := main.Find("section").First(); section.Length() > 0 {
		text = section.Text()
	}
	if strings.TrimSpace(text) == "" {
		text = main.Text()
	}
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text
}
