package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/invisible-growth/leadfinder/internal/model"
)

// Sales Navigator extraction takes text as is. The data-anonymize attributes
// are typed by LinkedIn, so no validation pass runs here.

// LeadRow extracts one lead from a search-result row.
func LeadRow(row *goquery.Selection) model.LeadData {
	return model.LeadData{
		FullName:    firstText(row, leadNameSelectors),
		CompanyName: firstText(row, leadCompanySelectors),
		JobTitle:    firstText(row, leadTitleSelectors),
		Location:    firstText(row, leadLocationSelectors),
	}
}

// LeadRows extracts every lead from a search-result page.
func LeadRows(doc *goquery.Document) []model.LeadData {
	var leads []model.LeadData
	doc.Find(`tr[data-x--people-list--row], .artdeco-list__item, tr.people-list-detail__row`).
		Each(func(_ int, row *goquery.Selection) {
			if lead := LeadRow(row); lead.Valid() {
				leads = append(leads, lead)
			}
		})
	return leads
}

// SidebarLead extracts the lead shown in the preview sidebar. The company
// hides in different places per layout: the logo's title or alt text, the
// tail of a "Title at Company" job line, or a plain company link.
func SidebarLead(doc *goquery.Document) model.LeadData {
	lead := model.LeadData{
		FullName: firstText(doc.Selection, sidebarNameSelectors),
	}

	for _, selector := range sidebarCompanySelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		var company string
		switch selector {
		case `img[data-anonymize="company-logo"]`:
			company, _ = sel.Attr("title")
			if company == "" {
				company, _ = sel.Attr("alt")
			}
		case `span[data-anonymize="job-title"]`:
			company = afterLastAt(sel.Text())
		default:
			company = strings.TrimSpace(sel.Text())
		}
		if company != "" {
			lead.CompanyName = company
			break
		}
	}

	for _, selector := range sidebarTitleSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		title := strings.TrimSpace(sel.Text())
		if strings.Contains(selector, "job-title") {
			title = beforeLastAt(title)
		}
		if title != "" {
			lead.JobTitle = title
			break
		}
	}

	return lead
}

// ProfileLead extracts the lead from a Sales Navigator profile page.
func ProfileLead(doc *goquery.Document) model.LeadData {
	return model.LeadData{
		FullName:    firstText(doc.Selection, leadProfileNameSelectors),
		CompanyName: firstText(doc.Selection, leadProfileCompanySelectors),
		JobTitle:    firstText(doc.Selection, leadProfileTitleSelectors),
	}
}

func firstText(scope *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		sel := scope.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	return ""
}

func afterLastAt(s string) string {
	text := strings.TrimSpace(s)
	if idx := strings.LastIndex(text, " at "); idx >= 0 {
		return strings.TrimSpace(text[idx+len(" at "):])
	}
	return ""
}

func beforeLastAt(s string) string {
	text := strings.TrimSpace(s)
	if idx := strings.LastIndex(text, " at "); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}
