package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/resume-builder/internal/resume"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

// printRecordList writes one line per record with its section counts
func printRecordList(w io.Writer, owner string, records []*resume.Record) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Resumes of %s (%d)", owner, len(records))))
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("  none"))
		return
	}
	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "  %s %s\n",
			labelStyle.Render(rec.Name),
			mutedStyle.Render(summarize(rec)))
	}
}

func summarize(rec *resume.Record) string {
	var parts []string
	for _, s := range resume.Sections {
		if !s.MultiEntry() {
			continue
		}
		if n := resume.EntryCount(rec.Document, s); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	if !rec.UpdatedAt.IsZero() {
		parts = append(parts, "updated "+rec.UpdatedAt.Format(time.DateTime))
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
}

// printRecord writes the present sections of one record
func printRecord(w io.Writer, rec *resume.Record) {
	d := rec.Document
	_, _ = fmt.Fprintln(w, titleStyle.Render(rec.Name))

	if d.Has(resume.SectionContact) {
		c := d.Contact
		field(w, "Name", c.FullName)
		field(w, "Email", c.Email)
		field(w, "Phone", c.Phone)
		field(w, "Location", c.Location)
		field(w, "LinkedIn", c.LinkedIn)
		field(w, "GitHub", c.GitHub)
	}
	if d.Has(resume.SectionSummary) {
		field(w, "Summary", *d.Summary)
	}
	for _, s := range resume.Sections {
		if !s.MultiEntry() || d.IsEmpty(s) {
			continue
		}
		_, _ = fmt.Fprintln(w, labelStyle.Render(s.Title()+":"))
		for _, line := range entryLines(d, s) {
			_, _ = fmt.Fprintln(w, "  "+valueStyle.Render(line))
		}
	}
	if d.Has(resume.SectionSkills) {
		field(w, "Skills", *d.Skills)
	}
}

func field(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

func entryLines(d *resume.Document, s resume.Section) []string {
	var lines []string
	switch s {
	case resume.SectionExperience:
		for _, e := range d.Experience {
			lines = append(lines, joinNonEmpty(" - ", e.Title, e.Company, joinNonEmpty(" to ", e.Start, e.End)))
		}
	case resume.SectionEducation:
		for _, e := range d.Education {
			lines = append(lines, joinNonEmpty(" - ", e.Degree, e.Field, e.School))
		}
	case resume.SectionProjects:
		for _, p := range d.Projects {
			lines = append(lines, joinNonEmpty(" - ", p.Title, p.TechStack))
		}
	case resume.SectionCertificates:
		for _, c := range d.Certificates {
			lines = append(lines, joinNonEmpty(" - ", c.Name, c.Issuer, c.Date))
		}
	case resume.SectionPublications:
		for _, p := range d.Publications {
			lines = append(lines, joinNonEmpty(" - ", p.Title, p.Publisher, p.Date))
		}
	}
	return lines
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
