package extract

// Selector tiers for LinkedIn profile pages, ordered by stability: data
// attributes, then semantic structure, then ARIA labels, then obfuscated
// class names, then legacy classes. A selector earlier in the list winning
// always beats a later one, so new-layout selectors go first.

var profileNameSelectors = []string{
	`[data-view-name="profile-top-card-verified-badge"] p`,
	`[data-view-name="profile-card"] p:first-of-type`,

	`main section:first-of-type p:first-of-type`,
	`.scaffold-layout__main section:first-of-type p`,

	`svg[id="verified-medium"] ~ p`,
	`div[role="button"][tabindex="0"] > div > div > p:first-child`,

	`main h1`,
	`.scaffold-layout__main h1`,
	`h1.text-heading-xlarge`,
	`h1.break-words`,

	`p.f11b6631.e526f3b0`,
	`p.f11b6631`,
	`p._4f72bd89.c80ef3c3._03ac4b6c`,
	`p._4f72bd89`,
	`p._7ba27260._1d487f80`,
	`p._7ba27260`,
}

var profileCompanySelectors = []string{
	`[data-view-name="profile-card"] img[src*="company-logo"] + div p`,
	`figure[data-view-name="image"] img[src*="company-logo"] ~ div p`,

	`.pvs-list__item--one-column a[href*="/company/"]`,
	`a[href*="/company/"]`,

	`button[aria-label*="Current company:"] span .inline-show-more-text--is-collapsed`,
	`button[aria-label*="Current company:"] span div`,
	`button[aria-label*="Current company:"] div[aria-hidden="true"]`,

	`a[data-field="experience_company_logo"]`,

	`p.f11b6631._7d5e841d._2578c488`,
	`p.f11b6631._7d5e841d`,
	`p._4f72bd89.d19a3465.b4d479d9`,
	`p._4f72bd89.d19a3465`,
	`p._7ba27260.ce3ac449._0dfd3b8b`,
	`p._7ba27260.ce3ac449`,

	`.pv-top-card-v2-section__company-name`,
	`.pv-text-details__left-panel .text-body-medium`,
	`.experience-section .pv-entity__secondary-title`,
}

// Sales Navigator markup carries data-anonymize attributes, which are far
// more stable than anything on the consumer site.

var leadNameSelectors = []string{
	`a[data-anonymize="person-name"]`,
	`.lists-detail__view-profile-name-link`,
	`a[href*="/sales/lead/"]`,
	`[data-x--people-list--person-name]`,
}

var leadCompanySelectors = []string{
	`a[data-anonymize="company-name"]`,
	`.artdeco-entity-lockup__title span[data-anonymize="company-name"]`,
	`a[href*="/sales/company/"]`,
	`.list-people-detail-header__account a`,
}

var leadTitleSelectors = []string{
	`div[data-anonymize="job-title"]`,
	`.Sans-14px-black-90\%`,
	`div[style*="-webkit-box-orient: vertical"]`,
	`[data-anonymize="headline"]`,
}

var leadLocationSelectors = []string{
	`td[data-anonymize="location"]`,
	`.list-people-detail-header__geography`,
}

var sidebarNameSelectors = []string{
	`h1[data-anonymize="person-name"]`,
	`a[data-anonymize="person-name"]`,
	`h1[data-x--lead--name]`,
	`._headingText_e3b563 a`,
}

var sidebarCompanySelectors = []string{
	`img[data-anonymize="company-logo"]`,
	`span[data-anonymize="job-title"]`,
	`a[data-anonymize="company-name"]`,
	`a[href*="/sales/company/"]`,
}

var sidebarTitleSelectors = []string{
	`span[data-anonymize="headline"]`,
	`span[data-anonymize="job-title"]`,
	`._bodyText_1e5nen span[data-anonymize="headline"]`,
}

var leadProfileNameSelectors = []string{
	`h1[data-anonymize="person-name"]`,
	`[data-x--lead--name]`,
	`.profile-topcard-person-entity__name`,
}

var leadProfileCompanySelectors = []string{
	`a[data-anonymize="company-name"]`,
	`a[href*="/sales/company/"]`,
	`.profile-topcard-person-entity__company a`,
}

var leadProfileTitleSelectors = []string{
	`span[data-anonymize="headline"]`,
	`[data-anonymize="job-title"]`,
	`.profile-topcard-person-entity__headline`,
}
