package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NormalizeJSON decodes arbitrary stored or externally supplied JSON into a Document.
// The input must be a JSON object.
func NormalizeJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Field: "document", Message: "invalid JSON", Cause: err}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &ValidationError{Field: "document", Message: "must be a JSON object"}
	}
	return Normalize(obj), nil
}

// Normalize applies section shapes and field defaults to a decoded JSON object.
// Recognized sections get total field coverage, unrecognized keys are kept
// verbatim and the reserved name key is dropped. Normalize is idempotent.
func Normalize(raw map[string]any) *Document {
	doc := &Document{}
	for key, value := range raw {
		section, recognized := ParseSection(key)
		if !recognized {
			if key == ReservedNameKey {
				continue
			}
			if encoded, err := json.Marshal(value); err == nil {
				if doc.Extra == nil {
					doc.Extra = make(map[string]json.RawMessage)
				}
				doc.Extra[key] = encoded
			}
			continue
		}

		switch section {
		case SectionContact:
			doc.Contact = normalizeContact(value)
		case SectionSummary:
			s := stringValue(value)
			doc.Summary = &s
		case SectionSkills:
			s := stringValue(value)
			doc.Skills = &s
		case SectionExperience:
			doc.Experience = normalizeEntries(value, normalizeExperience)
		case SectionEducation:
			doc.Education = normalizeEntries(value, normalizeEducation)
		case SectionProjects:
			doc.Projects = normalizeEntries(value, normalizeProject)
		case SectionCertificates:
			doc.Certificates = normalizeEntries(value, normalizeCertificate)
		case SectionPublications:
			doc.Publications = normalizeEntries(value, normalizePublication)
		}
	}
	return doc
}

func normalizeContact(value any) *Contact {
	m, _ := value.(map[string]any)
	return &Contact{
		FullName: stringValue(m["full_name"]),
		Phone:    stringValue(m["phone"]),
		Email:    stringValue(m["email"]),
		Location: stringValue(m["location"]),
		LinkedIn: stringValue(m["linkedin"]),
		GitHub:   stringValue(m["github"]),
	}
}

// normalizeEntries always returns a non-nil slice: a present section stays present.
// Items that are not JSON objects are dropped.
func normalizeEntries[T any](value any, build func(map[string]any) T) []T {
	items, _ := value.([]any)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, build(m))
		}
	}
	return out
}

func normalizeExperience(m map[string]any) ExperienceEntry {
	e := ExperienceEntry{
		Company:   stringValue(m["company"]),
		Title:     stringValue(m["title"]),
		Bullets:   bulletsValue(m["bullets"]),
		Start:     stringValue(m["start"]),
		End:       stringValue(m["end"]),
		TechStack: stringValue(m["tech_stack"]),
		Present:   boolValue(m["present"]),
	}
	if e.Present {
		e.End = PresentLabel
	}
	return e
}

func normalizeProject(m map[string]any) ProjectEntry {
	p := ProjectEntry{
		Title:     stringValue(m["title"]),
		Bullets:   bulletsValue(m["bullets"]),
		Start:     stringValue(m["start"]),
		End:       stringValue(m["end"]),
		TechStack: stringValue(m["tech_stack"]),
		Present:   boolValue(m["present"]),
	}
	if p.Present {
		p.End = PresentLabel
	}
	return p
}

func normalizeEducation(m map[string]any) EducationEntry {
	e := EducationEntry{
		School:  stringValue(m["school"]),
		Degree:  stringValue(m["degree"]),
		Field:   stringValue(m["field"]),
		Start:   stringValue(m["start"]),
		End:     stringValue(m["end"]),
		Present: boolValue(m["present"]),
	}
	if e.Present {
		e.End = PresentLabel
	}
	return e
}

func normalizeCertificate(m map[string]any) CertificateEntry {
	return CertificateEntry{
		Name:   stringValue(m["name"]),
		Issuer: stringValue(m["issuer"]),
		Date:   stringValue(m["date"]),
	}
}

func normalizePublication(m map[string]any) PublicationEntry {
	return PublicationEntry{
		Title:     stringValue(m["title"]),
		Publisher: stringValue(m["publisher"]),
		Date:      stringValue(m["date"]),
		Link:      stringValue(m["link"]),
	}
}

// stringValue reads a field as free-form text.
// Scalars keep their JSON spelling, lists of scalars are joined with ", ".
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(encoded)
	}
}

// bulletsValue accepts the list form and the legacy single-string form
func bulletsValue(v any) Bullets {
	switch t := v.(type) {
	case nil:
		return Bullets{}
	case []any:
		out := make(Bullets, 0, len(t))
		for _, item := range t {
			out = append(out, stringValue(item))
		}
		return out
	default:
		return Bullets{stringValue(t)}
	}
}

func boolValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	}
	return false
}
