package model

import "fmt"

// Section is one of the two groups slots are displayed in.
type Section string

const (
	SectionActive   Section = "active"
	SectionArchived Section = "archived"
)

// ParseSection accepts "active" and "archived" ("archive" is an alias).
func ParseSection(s string) (Section, error) {
	switch s {
	case "active":
		return SectionActive, nil
	case "archived", "archive":
		return SectionArchived, nil
	}
	return "", Invalid("section", fmt.Sprintf("unknown section %q", s))
}
