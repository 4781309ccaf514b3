package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Computed styles do not exist on a static parse, so rendered font size is
// approximated from heading level, inline style, and LinkedIn's typography
// utility classes. Absolute accuracy does not matter; only the ordering of
// candidates does.

var headingSizes = map[string]float64{
	"h1": 32, "h2": 24, "h3": 18.72, "h4": 16, "h5": 13.28, "h6": 10.72,
}

var classSizes = []struct {
	class string
	size  float64
}{
	{"text-heading-xlarge", 32},
	{"text-heading-large", 24},
	{"text-heading-medium", 20},
	{"t-24", 24},
	{"t-20", 20},
	{"t-18", 18},
	{"t-14", 14},
}

var inlineFontSizeRe = regexp.MustCompile(`font-size:\s*([\d.]+)px`)

const defaultFontSize = 16.0

func approxFontSize(sel *goquery.Selection) float64 {
	if style, ok := sel.Attr("style"); ok {
		if m := inlineFontSizeRe.FindStringSubmatch(style); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
	}
	if size, ok := headingSizes[goquery.NodeName(sel)]; ok {
		return size
	}
	if class, ok := sel.Attr("class"); ok {
		for _, c := range classSizes {
			if strings.Contains(class, c.class) {
				return c.size
			}
		}
	}
	if h := sel.Closest("h1, h2, h3, h4"); h.Length() > 0 {
		return headingSizes[goquery.NodeName(h)]
	}
	return defaultFontSize
}

// domDepth counts parent hops from sel up to root, capped at 50.
func domDepth(sel, root *goquery.Selection) int {
	if sel.Length() == 0 || root.Length() == 0 {
		return 0
	}
	rootNode := root.Get(0)
	depth := 0
	for n := sel.Get(0).Parent; n != nil && n != rootNode && depth < 50; n = n.Parent {
		depth++
	}
	return depth
}

// inProfileHeader reports whether sel sits in the profile's own header card.
// Shallow placement with large text counts too, which covers layouts where
// the card markers are missing.
func inProfileHeader(sel *goquery.Selection, depth int, fontSize float64) bool {
	if sel.Closest(`[data-view-name="profile-card"], [data-view-name="profile-top-card"]`).Length() > 0 {
		return true
	}
	if sel.Closest("section:first-of-type").Length() > 0 {
		return true
	}
	return depth < 15 && fontSize > 20
}

// scoredPersonName picks the best name-like paragraph. Larger text and
// shallower placement score higher; header placement gets a bonus large
// enough to beat any sidebar candidate outright.
func (e *Extractor) scoredPersonName(main *goquery.Selection) (string, bool) {
	var bestText string
	bestScore := math.Inf(-1)

	main.Find("p").Each(func(_ int, p *goquery.Selection) {
		if InModal(p) || InSidebar(p, e.ancestorScan) {
			return
		}
		text := strings.TrimSpace(p.Text())
		if len(text) < 5 || len(text) > 100 {
			return
		}
		if !IsValidPersonName(text) {
			return
		}

		fontSize := approxFontSize(p)
		depth := domDepth(p, main)
		score := fontSize*e.fontWeight - float64(depth)
		if inProfileHeader(p, depth, fontSize) {
			score += e.headerBonus
		}
		if score > bestScore {
			bestScore = score
			bestText = text
		}
	})

	return bestText, bestText != ""
}

var (
	atWordRe   = regexp.MustCompile(`(?i)\bat\s+`)
	formerlyRe = regexp.MustCompile(`(?i)\bformerly\s+`)
)

// scoredCompanyName picks the best standalone company paragraph. Shorter
// text, larger font, and shallower placement all score higher. Paragraphs
// with "at"/"Formerly" framing are skipped; the experience patterns already
// had their chance at those.
func (e *Extractor) scoredCompanyName(main *goquery.Selection, personName string) (string, bool) {
	var bestText string
	bestScore := math.Inf(-1)

	main.Find("p").Each(func(_ int, p *goquery.Selection) {
		if InModal(p) || InSidebar(p, e.ancestorScan) {
			return
		}
		text := strings.TrimSpace(p.Text())
		if personName != "" && strings.EqualFold(text, personName) {
			return
		}
		if atWordRe.MatchString(text) || formerlyRe.MatchString(text) {
			return
		}
		if len(text) < 2 || len(text) > 100 {
			return
		}
		cleaned := SanitizeCompany(text)
		if !IsValidCompanyName(cleaned) {
			return
		}

		score := math.Max(0, 50-float64(len(cleaned))) +
			approxFontSize(p) +
			math.Max(0, 30-float64(domDepth(p, main)))
		if score > bestScore {
			bestScore = score
			bestText = cleaned
		}
	})

	return bestText, bestText != ""
}
