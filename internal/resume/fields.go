package resume

import (
	"strconv"
	"strings"
)

// SetField assigns a free-form string to one field of an entry.
//
// The contact block is addressed with index 0. The "present" field is parsed as a
// boolean and, like every other assignment, re-applies the present/end coupling.
// Assigning "bullets" stores the value as a single bullet.
func SetField(d *Document, s Section, index int, field, value string) error {
	switch s {
	case SectionContact:
		if index != 0 {
			return &IndexOutOfRangeError{Section: s, Index: index, Length: 1}
		}
		if d.Contact == nil {
			d.Contact = &Contact{}
		}
		if !d.Contact.set(field, value) {
			return &UnknownFieldError{Section: s, Field: field}
		}
		return nil
	case SectionExperience:
		return setEntryField(d.Experience, s, index, field, value)
	case SectionEducation:
		return setEntryField(d.Education, s, index, field, value)
	case SectionProjects:
		return setEntryField(d.Projects, s, index, field, value)
	case SectionCertificates:
		return setEntryField(d.Certificates, s, index, field, value)
	case SectionPublications:
		return setEntryField(d.Publications, s, index, field, value)
	}
	return &UnknownSectionError{Section: string(s), Op: "set_field"}
}

// SetText assigns the summary or skills text
func SetText(d *Document, s Section, value string) error {
	switch s {
	case SectionSummary:
		d.Summary = &value
	case SectionSkills:
		d.Skills = &value
	default:
		return &UnknownSectionError{Section: string(s), Op: "set_text"}
	}
	return nil
}

// fieldSetter is implemented by pointer-to-entry types
type fieldSetter[T any] interface {
	*T
	set(field, value string) bool
}

func setEntryField[T any, P fieldSetter[T]](entries []T, s Section, index int, field, value string) error {
	if index < 0 || index >= len(entries) {
		return &IndexOutOfRangeError{Section: s, Index: index, Length: len(entries)}
	}
	if !P(&entries[index]).set(field, value) {
		return &UnknownFieldError{Section: s, Field: field}
	}
	return nil
}

func parsePresent(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

func (c *Contact) set(field, value string) bool {
	switch field {
	case "full_name":
		c.FullName = value
	case "phone":
		c.Phone = value
	case "email":
		c.Email = value
	case "location":
		c.Location = value
	case "linkedin":
		c.LinkedIn = value
	case "github":
		c.GitHub = value
	default:
		return false
	}
	return true
}

func (e *ExperienceEntry) set(field, value string) bool {
	switch field {
	case "company":
		e.Company = value
	case "title":
		e.Title = value
	case "bullets":
		e.Bullets = Bullets{value}
	case "start":
		e.Start = value
	case "end":
		e.End = value
	case "tech_stack":
		e.TechStack = value
	case "present":
		e.Present = parsePresent(value)
	default:
		return false
	}
	if e.Present {
		e.End = PresentLabel
	}
	return true
}

func (p *ProjectEntry) set(field, value string) bool {
	switch field {
	case "title":
		p.Title = value
	case "bullets":
		p.Bullets = Bullets{value}
	case "start":
		p.Start = value
	case "end":
		p.End = value
	case "tech_stack":
		p.TechStack = value
	case "present":
		p.Present = parsePresent(value)
	default:
		return false
	}
	if p.Present {
		p.End = PresentLabel
	}
	return true
}

func (e *EducationEntry) set(field, value string) bool {
	switch field {
	case "school":
		e.School = value
	case "degree":
		e.Degree = value
	case "field":
		e.Field = value
	case "start":
		e.Start = value
	case "end":
		e.End = value
	case "present":
		e.Present = parsePresent(value)
	default:
		return false
	}
	if e.Present {
		e.End = PresentLabel
	}
	return true
}

func (c *CertificateEntry) set(field, value string) bool {
	switch field {
	case "name":
		c.Name = value
	case "issuer":
		c.Issuer = value
	case "date":
		c.Date = value
	default:
		return false
	}
	return true
}

func (p *PublicationEntry) set(field, value string) bool {
	switch field {
	case "title":
		p.Title = value
	case "publisher":
		p.Publisher = value
	case "date":
		p.Date = value
	case "link":
		p.Link = value
	default:
		return false
	}
	return true
}
