package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/config"
)

// ErrNoCandidate is returned when every extraction strategy, selector tiers
// and candidate scoring alike, comes up empty. It signals absence, not
// failure.
var ErrNoCandidate = eris.New("extract: no candidate found")

// Extractor pulls person and company names out of parsed LinkedIn pages.
// Selector tiers run first, most stable to least; candidate scoring over raw
// paragraphs is the last resort when every tier misses.
type Extractor struct {
	fontWeight   float64
	headerBonus  float64
	ancestorScan int
}

func New(cfg config.ExtractConfig) *Extractor {
	e := &Extractor{
		fontWeight:   cfg.FontWeight,
		headerBonus:  cfg.HeaderBonus,
		ancestorScan: cfg.AncestorScan,
	}
	if e.fontWeight == 0 {
		e.fontWeight = 3.0
	}
	if e.headerBonus == 0 {
		e.headerBonus = 200.0
	}
	if e.ancestorScan == 0 {
		e.ancestorScan = 20
	}
	return e
}

// acceptFunc cleans a raw text candidate and reports whether it is usable.
type acceptFunc func(raw string) (string, bool)

var companyHrefRe = regexp.MustCompile(`/company/([^/?#]+)`)

// firstValid walks selectors in order and returns the first cleaned match.
// Elements inside modals and recommendation sidebars never win, whatever
// their selector tier.
func (e *Extractor) firstValid(scope *goquery.Selection, selectors []string, accept acceptFunc) (string, bool) {
	for _, selector := range selectors {
		var found string
		scope.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if InModal(sel) || InSidebar(sel, e.ancestorScan) {
				return true
			}
			raw := strings.TrimSpace(sel.Text())
			if raw == "" && goquery.NodeName(sel) == "a" {
				raw = companyFromHref(sel)
			}
			if raw == "" {
				return true
			}
			if cleaned, ok := accept(raw); ok {
				found = cleaned
				return false
			}
			return true
		})
		if found != "" {
			zap.L().Debug("extract: selector tier hit",
				zap.String("selector", selector),
				zap.String("value", found))
			return found, true
		}
	}
	return "", false
}

// companyFromHref recovers a readable company name from a /company/ URL slug
// when the anchor itself renders no text (logo-only links).
func companyFromHref(sel *goquery.Selection) string {
	href, _ := sel.Attr("href")
	m := companyHrefRe.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "-", " ")
}

// mainScope narrows a document to its <main> element, falling back to the
// whole document for fragments and test fixtures without one.
func mainScope(doc *goquery.Document) *goquery.Selection {
	if main := doc.Find("main").First(); main.Length() > 0 {
		return main
	}
	return doc.Selection
}
