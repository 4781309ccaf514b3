package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invisible-growth/leadfinder/internal/config"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newTestExtractor() *Extractor {
	return New(config.ExtractConfig{FontWeight: 3.0, HeaderBonus: 200.0, AncestorScan: 20})
}

func TestProfilePersonFromDataAttribute(t *testing.T) {
	doc := parseDoc(t, `
		<main>
			<div data-view-name="profile-card"><p>Jane Doe</p><p>CEO at Acme</p></div>
		</main>`)

	name, ok := newTestExtractor().ProfilePerson(doc)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
}

func TestProfilePersonFromJSONLD(t *testing.T) {
	doc := parseDoc(t, `
		<head><script type="application/ld+json">
			{"name": "Jane Doe", "worksFor": {"name": "Acme Corp"}}
		</script></head>
		<main><h1>Someone Else</h1></main>`)

	name, ok := newTestExtractor().ProfilePerson(doc)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
}

func TestProfilePersonH1Fallback(t *testing.T) {
	doc := parseDoc(t, `
		<main>
			<div role="dialog"><h1>Ad Feedback Person</h1></div>
			<h1 class="unknown-future-class">Jane Doe</h1>
		</main>`)

	name, ok := newTestExtractor().ProfilePerson(doc)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
}

func TestProfilePersonScoredFallbackPrefersHeader(t *testing.T) {
	// No selector tier matches this markup; scoring must pick the large
	// shallow paragraph and never the sidebar recommendation.
	doc := parseDoc(t, `
		<div>
			<p style="font-size: 24px">Jane Doe</p>
			<aside><p style="font-size: 24px">Rick Other</p></aside>
		</div>`)

	name, ok := newTestExtractor().ProfilePerson(doc)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
}

func TestProfilePersonAbsentWhenNothingValidates(t *testing.T) {
	doc := parseDoc(t, `<main><p>Madonna</p><p>LinkedIn</p></main>`)

	_, ok := newTestExtractor().ProfilePerson(doc)
	assert.False(t, ok)
}

func TestProfileCompanyExperiencePatterns(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "company bullet employment type",
			html: `<main><div data-view-name="profile-card-experience">
				<p>Software Engineer</p>
				<p>The North Stands · Full-time</p>
			</div></main>`,
			want: "The North Stands",
		},
		{
			name: "previous paragraph before employment line",
			html: `<main><div data-view-name="profile-card-experience">
				<p>Invisible Technologies</p>
				<p>Full-time · 2 yrs 6 mos</p>
			</div></main>`,
			want: "Invisible Technologies",
		},
		{
			name: "title at company",
			html: `<main><div data-view-name="profile-card-experience">
				<p>Chief Executive Officer at Invisible Technologies</p>
			</div></main>`,
			want: "Invisible Technologies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, tt.html)
			company, ok := newTestExtractor().ProfileCompany(doc, "Jane Doe")
			require.True(t, ok)
			assert.Equal(t, tt.want, company)
		})
	}
}

func TestProfileCompanySkipsPersonName(t *testing.T) {
	doc := parseDoc(t, `<main><div data-view-name="profile-card-experience">
		<p>Jane Doe</p>
		<p>Full-time · 2 yrs</p>
		<p>Acme Corp · Full-time</p>
	</div></main>`)

	company, ok := newTestExtractor().ProfileCompany(doc, "Jane Doe")
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", company)
}

func TestProfileCompanyFromHrefSlug(t *testing.T) {
	doc := parseDoc(t, `<main><a href="/company/acme-corp/"><img src="logo.png"></a></main>`)

	company, ok := newTestExtractor().ProfileCompany(doc, "")
	require.True(t, ok)
	assert.Equal(t, "acme corp", company)
}

func TestProfileCompanyFromJSONLD(t *testing.T) {
	doc := parseDoc(t, `
		<script type="application/ld+json">{"name":"Jane Doe","worksFor":[{"name":"Acme Corp"}]}</script>
		<main></main>`)

	company, ok := newTestExtractor().ProfileCompany(doc, "Jane Doe")
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", company)
}

func TestProfileCompanyAbsentOnEmptyPage(t *testing.T) {
	doc := parseDoc(t, `<main><p>2nd</p><p>500 followers</p></main>`)

	_, ok := newTestExtractor().ProfileCompany(doc, "Jane Doe")
	assert.False(t, ok)
}

func TestPageTextCapsLength(t *testing.T) {
	long := strings.Repeat("a", 500)
	doc := parseDoc(t, `<main><section><p>`+long+`</p></section></main>`)

	text := PageText(doc, 100)
	assert.Len(t, text, 100)
}

func TestPageTextPrefersFirstSection(t *testing.T) {
	doc := parseDoc(t, `<main>
		<section><p>Jane Doe</p><p>CEO at Acme</p></section>
		<section><p>Unrelated activity feed</p></section>
	</main>`)

	text := PageText(doc, 8000)
	assert.Contains(t, text, "Jane Doe")
	assert.NotContains(t, text, "activity feed")
}
