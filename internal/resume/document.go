package resume

import (
	"encoding/json"
	"slices"
)

// Section names a division of a resume document
type Section string

// Recognized sections
const (
	SectionContact      Section = "contact"
	SectionSummary      Section = "summary"
	SectionExperience   Section = "experience"
	SectionEducation    Section = "education"
	SectionProjects     Section = "projects"
	SectionSkills       Section = "skills"
	SectionCertificates Section = "certificates"
	SectionPublications Section = "publications"
)

// PresentLabel is the end value forced on entries flagged as ongoing
const PresentLabel = "Present"

// ReservedNameKey is the key the flattened record view uses for the resume name.
const ReservedNameKey = "name"

// Sections lists recognized sections in export order.
var Sections = []Section{
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionProjects,
	SectionSkills,
	SectionCertificates,
	SectionPublications,
}

var sectionTitles = map[Section]string{
	SectionContact:      "Contact Info",
	SectionSummary:      "Summary",
	SectionExperience:   "Experience",
	SectionEducation:    "Education",
	SectionProjects:     "Projects",
	SectionSkills:       "Skills",
	SectionCertificates: "Certificates",
	SectionPublications: "Publications",
}

// ParseSection maps a section key to a recognized Section
func ParseSection(key string) (Section, bool) {
	s := Section(key)
	_, ok := sectionTitles[s]
	return s, ok
}

// Title returns the display heading for the section
func (s Section) Title() string {
	return sectionTitles[s]
}

// MultiEntry reports whether the section holds an ordered list of entries
func (s Section) MultiEntry() bool {
	switch s {
	case SectionExperience, SectionEducation, SectionProjects, SectionCertificates, SectionPublications:
		return true
	}
	return false
}

// Bullets is an ordered list of bullet lines. It always encodes as a JSON array.
type Bullets []string

// MarshalJSON encodes nil as an empty array
func (b Bullets) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(b))
}

// Contact holds the contact block
type Contact struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// IsEmpty reports whether every contact field is blank
func (c *Contact) IsEmpty() bool {
	return c == nil || *c == (Contact{})
}

// ExperienceEntry is one job in the experience section
type ExperienceEntry struct {
	Company   string  `json:"company"`
	Title     string  `json:"title"`
	Bullets   Bullets `json:"bullets"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	TechStack string  `json:"tech_stack"`
	Present   bool    `json:"present"`
}

// ProjectEntry is one project in the projects section
type ProjectEntry struct {
	Title     string  `json:"title"`
	Bullets   Bullets `json:"bullets"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	TechStack string  `json:"tech_stack"`
	Present   bool    `json:"present"`
}

// EducationEntry is one school in the education section
type EducationEntry struct {
	School  string `json:"school"`
	Degree  string `json:"degree"`
	Field   string `json:"field"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Present bool   `json:"present"`
}

// CertificateEntry is one certificate
type CertificateEntry struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// PublicationEntry is one publication
type PublicationEntry struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Date      string `json:"date"`
	Link      string `json:"link"`
}

// Document is the canonical, fully-covered shape of a resume.
//
// A nil pointer or nil slice means the section is absent; a non-nil empty slice
// means the section is present with no entries. Unrecognized top-level keys are
// carried in Extra as compact JSON and written back unchanged.
type Document struct {
	Contact      *Contact
	Summary      *string
	Skills       *string
	Experience   []ExperienceEntry
	Education    []EducationEntry
	Projects     []ProjectEntry
	Certificates []CertificateEntry
	Publications []PublicationEntry
	Extra        map[string]json.RawMessage
}

// Has reports whether the section is present in the document
func (d *Document) Has(s Section) bool {
	switch s {
	case SectionContact:
		return d.Contact != nil
	case SectionSummary:
		return d.Summary != nil
	case SectionSkills:
		return d.Skills != nil
	case SectionExperience:
		return d.Experience != nil
	case SectionEducation:
		return d.Education != nil
	case SectionProjects:
		return d.Projects != nil
	case SectionCertificates:
		return d.Certificates != nil
	case SectionPublications:
		return d.Publications != nil
	}
	return false
}

// IsEmpty reports whether the section is absent or carries no content
func (d *Document) IsEmpty(s Section) bool {
	switch s {
	case SectionContact:
		return d.Contact.IsEmpty()
	case SectionSummary:
		return d.Summary == nil || *d.Summary == ""
	case SectionSkills:
		return d.Skills == nil || *d.Skills == ""
	}
	return EntryCount(d, s) == 0
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Education:    slices.Clone(d.Education),
		Certificates: slices.Clone(d.Certificates),
		Publications: slices.Clone(d.Publications),
	}
	if d.Contact != nil {
		c := *d.Contact
		out.Contact = &c
	}
	if d.Summary != nil {
		s := *d.Summary
		out.Summary = &s
	}
	if d.Skills != nil {
		s := *d.Skills
		out.Skills = &s
	}
	if d.Experience != nil {
		out.Experience = make([]ExperienceEntry, len(d.Experience))
		for i, e := range d.Experience {
			e.Bullets = slices.Clone(e.Bullets)
			out.Experience[i] = e
		}
	}
	if d.Projects != nil {
		out.Projects = make([]ProjectEntry, len(d.Projects))
		for i, p := range d.Projects {
			p.Bullets = slices.Clone(p.Bullets)
			out.Projects[i] = p
		}
	}
	if d.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = slices.Clone(v)
		}
	}
	return out
}

// fields returns the document as a flat key -> value map of present sections
func (d *Document) fields() map[string]any {
	out := make(map[string]any, len(d.Extra)+len(Sections))
	for k, v := range d.Extra {
		out[k] = v
	}
	if d.Contact != nil {
		out[string(SectionContact)] = d.Contact
	}
	if d.Summary != nil {
		out[string(SectionSummary)] = *d.Summary
	}
	if d.Skills != nil {
		out[string(SectionSkills)] = *d.Skills
	}
	if d.Experience != nil {
		out[string(SectionExperience)] = d.Experience
	}
	if d.Education != nil {
		out[string(SectionEducation)] = d.Education
	}
	if d.Projects != nil {
		out[string(SectionProjects)] = d.Projects
	}
	if d.Certificates != nil {
		out[string(SectionCertificates)] = d.Certificates
	}
	if d.Publications != nil {
		out[string(SectionPublications)] = d.Publications
	}
	return out
}

// MarshalJSON writes present sections and extra keys as one JSON object
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.fields())
}

// UnmarshalJSON decodes through Normalize, so any stored shape is accepted
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := NormalizeJSON(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}
