package resume

import "slices"

// EntryCount returns the number of entries in a multi-entry section (0 when absent)
func EntryCount(d *Document, s Section) int {
	switch s {
	case SectionExperience:
		return len(d.Experience)
	case SectionEducation:
		return len(d.Education)
	case SectionProjects:
		return len(d.Projects)
	case SectionCertificates:
		return len(d.Certificates)
	case SectionPublications:
		return len(d.Publications)
	}
	return 0
}

// AddEntry appends a default entry to a multi-entry section, creating the
// section if absent, and returns the new entry's index.
func AddEntry(d *Document, s Section) (int, error) {
	switch s {
	case SectionExperience:
		return appendEntry(&d.Experience, ExperienceEntry{Bullets: Bullets{}}), nil
	case SectionEducation:
		return appendEntry(&d.Education, EducationEntry{}), nil
	case SectionProjects:
		return appendEntry(&d.Projects, ProjectEntry{Bullets: Bullets{}}), nil
	case SectionCertificates:
		return appendEntry(&d.Certificates, CertificateEntry{}), nil
	case SectionPublications:
		return appendEntry(&d.Publications, PublicationEntry{}), nil
	}
	return 0, &UnknownSectionError{Section: string(s), Op: "add_entry"}
}

// RemoveEntry removes the entry at the current display index.
// Later entries shift down so indices stay contiguous.
func RemoveEntry(d *Document, s Section, index int) error {
	switch s {
	case SectionExperience:
		return removeEntry(&d.Experience, s, index)
	case SectionEducation:
		return removeEntry(&d.Education, s, index)
	case SectionProjects:
		return removeEntry(&d.Projects, s, index)
	case SectionCertificates:
		return removeEntry(&d.Certificates, s, index)
	case SectionPublications:
		return removeEntry(&d.Publications, s, index)
	}
	return &UnknownSectionError{Section: string(s), Op: "remove_entry"}
}

func appendEntry[T any](entries *[]T, entry T) int {
	if *entries == nil {
		*entries = []T{}
	}
	*entries = append(*entries, entry)
	return len(*entries) - 1
}

func removeEntry[T any](entries *[]T, s Section, index int) error {
	if index < 0 || index >= len(*entries) {
		return &IndexOutOfRangeError{Section: s, Index: index, Length: len(*entries)}
	}
	*entries = slices.Delete(*entries, index, index+1)
	return nil
}

// bulletsAt returns the bullet list of an experience or project entry
func bulletsAt(d *Document, s Section, index int) (*Bullets, error) {
	switch s {
	case SectionExperience:
		if index < 0 || index >= len(d.Experience) {
			return nil, &IndexOutOfRangeError{Section: s, Index: index, Length: len(d.Experience)}
		}
		return &d.Experience[index].Bullets, nil
	case SectionProjects:
		if index < 0 || index >= len(d.Projects) {
			return nil, &IndexOutOfRangeError{Section: s, Index: index, Length: len(d.Projects)}
		}
		return &d.Projects[index].Bullets, nil
	}
	return nil, &UnknownSectionError{Section: string(s), Op: "bullets"}
}

// AddBullet appends an empty bullet to an entry and returns its index
func AddBullet(d *Document, s Section, index int) (int, error) {
	bullets, err := bulletsAt(d, s, index)
	if err != nil {
		return 0, err
	}
	*bullets = append(*bullets, "")
	return len(*bullets) - 1, nil
}

// RemoveBullet removes one bullet by position
func RemoveBullet(d *Document, s Section, index, bullet int) error {
	bullets, err := bulletsAt(d, s, index)
	if err != nil {
		return err
	}
	if bullet < 0 || bullet >= len(*bullets) {
		return &IndexOutOfRangeError{Section: s, Index: bullet, Length: len(*bullets)}
	}
	*bullets = slices.Delete(*bullets, bullet, bullet+1)
	return nil
}

// SetBullet replaces the text of one bullet
func SetBullet(d *Document, s Section, index, bullet int, text string) error {
	bullets, err := bulletsAt(d, s, index)
	if err != nil {
		return err
	}
	if bullet < 0 || bullet >= len(*bullets) {
		return &IndexOutOfRangeError{Section: s, Index: bullet, Length: len(*bullets)}
	}
	(*bullets)[bullet] = text
	return nil
}
