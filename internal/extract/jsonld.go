package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/invisible-growth/leadfinder/internal/model"
)

type ldOrg struct {
	Name string `json:"name"`
}

type ldEntity struct {
	Name        string          `json:"name"`
	GivenName   string          `json:"givenName"`
	FamilyName  string          `json:"familyName"`
	Author      ldOrg           `json:"author"`
	WorksFor    json.RawMessage `json:"worksFor"`
	MemberOf    json.RawMessage `json:"memberOf"`
	Affiliation json.RawMessage `json:"affiliation"`
}

// FromJSONLD reads embedded structured data, the most stable source on the
// page when present. Scripts that fail to parse are skipped, not fatal.
func FromJSONLD(doc *goquery.Document) model.ExtractionResult {
	var result model.ExtractionResult

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var entity ldEntity
		if err := json.Unmarshal([]byte(script.Text()), &entity); err != nil {
			return true
		}

		name := entity.Name
		if name == "" {
			name = entity.Author.Name
		}
		if name == "" && entity.GivenName != "" && entity.FamilyName != "" {
			name = entity.GivenName + " " + entity.FamilyName
		}

		company := orgName(entity.WorksFor)
		if company == "" {
			company = orgName(entity.MemberOf)
		}
		if company == "" {
			company = orgName(entity.Affiliation)
		}

		if name == "" && company == "" {
			return true
		}
		result = model.ExtractionResult{
			PersonName:  strings.TrimSpace(name),
			CompanyName: strings.TrimSpace(company),
		}
		return false
	})

	return result
}

// orgName unwraps a schema.org organization, which appears as either a
// single object or a list.
func orgName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var org ldOrg
	if err := json.Unmarshal(raw, &org); err == nil && org.Name != "" {
		return org.Name
	}
	var orgs []ldOrg
	if err := json.Unmarshal(raw, &orgs); err == nil && len(orgs) > 0 {
		return orgs[0].Name
	}
	return ""
}
