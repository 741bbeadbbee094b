package skill

import (
	"strings"

	"golang.org/x/text/cases"
)

type SkillType struct {
	ID   int64
	Name string
}

// NameKey is the case-insensitive identity of a skill type name.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
