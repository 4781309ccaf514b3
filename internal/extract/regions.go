package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section headers that mark recommendation and ad sidebars. Text from inside
// these regions belongs to other people's profiles and must never win.
var sidebarPhrases = []string{
	"more profiles for you",
	"people also viewed",
	"people you may know",
	"you might like",
	"explore premium profiles",
	"pages for you",
	"similar profiles",
	"view similar profiles",
	"promoted",
	"ad ·",
}

const modalSelector = `[role="dialog"], [role="alertdialog"], [aria-modal="true"], ` +
	`.artdeco-modal, .msg-overlay-bubble-header, [data-test-modal], .ad-feedback`

const sidebarSelector = `aside, .scaffold-layout__aside, .scaffold-layout-toolbar, ` +
	`.artdeco-card--aside, .pvs-list--sidebar, .right-rail`

// InModal reports whether sel sits inside an overlay that floats above the
// profile, such as a message popup or an ad feedback dialog.
func InModal(sel *goquery.Selection) bool {
	return sel.Closest(modalSelector).Length() > 0
}

// InSidebar reports whether sel sits inside a recommendation or ad region.
// Structural containers are checked first, then ancestor text is scanned up
// to maxDepth levels for known sidebar section headers. The text scan is the
// safety net for markup variants with no reliable container class.
func InSidebar(sel *goquery.Selection, maxDepth int) bool {
	if sel.Closest(sidebarSelector).Length() > 0 {
		return true
	}

	node := sel
	for depth := 0; depth < maxDepth; depth++ {
		node = node.Parent()
		if node.Length() == 0 {
			break
		}
		if label, ok := node.Attr("aria-label"); ok {
			if containsSidebarPhrase(label) {
				return true
			}
		}
		// Only headers and short labels are scanned. Full subtree text of a
		// high ancestor would contain the whole page.
		header := node.ChildrenFiltered("h2, h3, .artdeco-card__title, [aria-hidden]").First()
		if header.Length() > 0 && containsSidebarPhrase(header.Text()) {
			return true
		}
	}
	return false
}

func containsSidebarPhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range sidebarPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
