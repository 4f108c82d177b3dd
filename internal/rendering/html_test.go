package rendering

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/resume"
)

func parseHTML(t *testing.T, doc *resume.Document) *goquery.Document {
	t.Helper()
	html, err := RenderHTML(doc)
	require.NoError(t, err)
	page, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return page
}

func fullDocument(t *testing.T) *resume.Document {
	t.Helper()
	doc, err := resume.NormalizeJSON([]byte(`{
		"contact": {"full_name": "Ada Lovelace", "email": "ada@example.com", "github": "ada"},
		"summary": "Analyst",
		"experience": [{"company": "Acme", "title": "Engineer", "start": "2020", "present": true,
			"bullets": ["Built things", "  "], "tech_stack": "Go, SQL"}],
		"education": [{"school": "MIT", "degree": "BSc", "field": "Math", "start": "2010", "end": "2014"}],
		"projects": [{"title": "Engine", "bullets": ["Designed it"]}],
		"skills": "Go",
		"certificates": [{"name": "CKA", "issuer": "CNCF", "date": "2021"}],
		"publications": [{"title": "Notes", "publisher": "Journal", "date": "1843", "link": "https://example.com"}]
	}`))
	require.NoError(t, err)
	return doc
}

func TestRenderHTML_SectionOrder(t *testing.T) {
	page := parseHTML(t, fullDocument(t))

	ids := page.Find("section").Map(func(_ int, s *goquery.Selection) string {
		id, _ := s.Attr("id")
		return id
	})

	want := make([]string, 0, len(resume.Sections))
	for _, s := range resume.Sections {
		want = append(want, string(s))
	}
	assert.Equal(t, want, ids)
	assert.Equal(t, "Ada Lovelace", page.Find("title").Text())
}

func TestRenderHTML_EntryLines(t *testing.T) {
	page := parseHTML(t, fullDocument(t))

	assert.Equal(t, "Engineer at Acme (2020 - Present)", page.Find("#experience .entry-heading").Text())
	assert.Equal(t, 1, page.Find("#experience li").Length(), "blank bullets are skipped")
	assert.Equal(t, "Tech: Go, SQL", page.Find("#experience .tech").Text())
	assert.Equal(t, "BSc in Math at MIT (2010 - 2014)", page.Find("#education .entry-heading").Text())
	assert.Equal(t, "Engine", page.Find("#projects .entry-heading").Text())
	assert.Equal(t, "CKA - CNCF (2021)", page.Find("#certificates .entry-heading").Text())
	assert.Equal(t, "Notes (Journal, 1843)", page.Find("#publications .entry-heading").Text())
	assert.Equal(t, "Link: https://example.com", page.Find("#publications .link").Text())
	assert.Equal(t, 0, page.Find("#contact .linkedin").Length())
	assert.Equal(t, "GitHub: ada", page.Find("#contact .github").Text())
}

func TestRenderHTML_OmitsEmptySections(t *testing.T) {
	doc, err := resume.NormalizeJSON([]byte(`{"contact": {}, "summary": "", "experience": [], "skills": "Go"}`))
	require.NoError(t, err)

	page := parseHTML(t, doc)
	assert.Equal(t, 1, page.Find("section").Length())
	assert.Equal(t, 1, page.Find("#skills").Length())
	assert.Equal(t, "Resume", page.Find("title").Text())

	page = parseHTML(t, nil)
	assert.Equal(t, 0, page.Find("section").Length())
}

func TestRenderHTML_EscapesText(t *testing.T) {
	summary := `<script>alert("x")</script>`
	page := parseHTML(t, &resume.Document{Summary: &summary})

	assert.Equal(t, 0, page.Find("script").Length())
	assert.Equal(t, summary, page.Find("#summary .text").Text())
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a - b", join(" - ", "a", "b"))
	assert.Equal(t, "b", join(" - ", " ", "b"))
	assert.Equal(t, "", join(" - "))
	assert.Equal(t, "2020", dateRange("2020", ""))
}
