package enums

import "fmt"

// ProgramCategory buckets the funding programs goods are allocated to.
type ProgramCategory string

const (
	ProgramCategoryBeforeAfter ProgramCategory = "before_after"
	ProgramCategoryToddler     ProgramCategory = "toddler"
	ProgramCategoryInfant      ProgramCategory = "infant"
	ProgramCategoryGSRP        ProgramCategory = "gsrp"
)

var validProgramCategories = []ProgramCategory{
	ProgramCategoryBeforeAfter,
	ProgramCategoryToddler,
	ProgramCategoryInfant,
	ProgramCategoryGSRP,
}

// String implements fmt.Stringer.
func (c ProgramCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProgramCategory.
func (c ProgramCategory) IsValid() bool {
	for _, candidate := range validProgramCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProgramCategory converts raw input into a ProgramCategory.
func ParseProgramCategory(value string) (ProgramCategory, error) {
	for _, candidate := range validProgramCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid program category %q", value)
}
