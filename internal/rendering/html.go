package rendering

import (
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/resume"
)

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

const layoutName = "resume.html.tmpl"

var (
	layoutOnce sync.Once
	layout     *template.Template
	layoutErr  error
)

var funcs = template.FuncMap{
	"join":     join,
	"dates":    dateRange,
	"nonEmpty": nonEmpty,
}

// layoutData is the view of a document handed to the layout. Empty sections
// are left at their zero value so the layout skips them.
type layoutData struct {
	Title        string
	Contact      *resume.Contact
	Summary      string
	Skills       string
	Experience   []resume.ExperienceEntry
	Education    []resume.EducationEntry
	Projects     []resume.ProjectEntry
	Certificates []resume.CertificateEntry
	Publications []resume.PublicationEntry
}

func loadLayout() (*template.Template, error) {
	layoutOnce.Do(func() {
		layout, layoutErr = template.New(layoutName).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutName)
	})
	if layoutErr != nil {
		return nil, &TemplateError{Message: "failed to parse layout", Cause: layoutErr}
	}
	return layout, nil
}

// RenderHTML lays out the document as a standalone HTML page. Sections appear in
// export order and absent or empty sections are omitted.
func RenderHTML(doc *resume.Document) (string, error) {
	tmpl, err := loadLayout()
	if err != nil {
		return "", err
	}
	if doc == nil {
		doc = &resume.Document{}
	}

	var out strings.Builder
	if err := tmpl.ExecuteTemplate(&out, layoutName, newLayoutData(doc)); err != nil {
		return "", &TemplateError{Message: "failed to execute layout", Cause: err}
	}
	return out.String(), nil
}

func newLayoutData(doc *resume.Document) layoutData {
	data := layoutData{Title: "Resume"}
	if !doc.IsEmpty(resume.SectionContact) {
		data.Contact = doc.Contact
		if doc.Contact.FullName != "" {
			data.Title = doc.Contact.FullName
		}
	}
	if !doc.IsEmpty(resume.SectionSummary) {
		data.Summary = *doc.Summary
	}
	if !doc.IsEmpty(resume.SectionSkills) {
		data.Skills = *doc.Skills
	}
	if len(doc.Experience) > 0 {
		data.Experience = doc.Experience
	}
	if len(doc.Education) > 0 {
		data.Education = doc.Education
	}
	if len(doc.Projects) > 0 {
		data.Projects = doc.Projects
	}
	if len(doc.Certificates) > 0 {
		data.Certificates = doc.Certificates
	}
	if len(doc.Publications) > 0 {
		data.Publications = doc.Publications
	}
	return data
}

// join joins the non-blank parts with sep
func join(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func dateRange(start, end string) string {
	return join(" - ", start, end)
}

func nonEmpty(bullets resume.Bullets) []string {
	var out []string
	for _, b := range bullets {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return out
}
