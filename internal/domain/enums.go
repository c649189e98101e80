package domain

import "strings"

// Category is the closed set of brief categories.
type Category string

const (
	CategoryOldTestament Category = "old-testament"
	CategoryNewTestament Category = "new-testament"
	CategoryTopical      Category = "topical"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryOldTestament, CategoryNewTestament, CategoryTopical:
		return true
	}
	return false
}

// categoryAliases maps normalized free-form labels onto the closed set.
var categoryAliases = map[string]Category{
	"old-testament": CategoryOldTestament,
	"oldtestament":  CategoryOldTestament,
	"old":           CategoryOldTestament,
	"ot":            CategoryOldTestament,
	"hebrew-bible":  CategoryOldTestament,
	"tanakh":        CategoryOldTestament,
	"new-testament": CategoryNewTestament,
	"newtestament":  CategoryNewTestament,
	"new":           CategoryNewTestament,
	"nt":            CategoryNewTestament,
	"gospel":        CategoryNewTestament,
	"gospels":       CategoryNewTestament,
	"epistle":       CategoryNewTestament,
	"epistles":      CategoryNewTestament,
	"topical":       CategoryTopical,
	"topic":         CategoryTopical,
	"thematic":      CategoryTopical,
	"general":       CategoryTopical,
}

// ParseCategory resolves a label to a Category. It accepts the canonical
// values as well as common spellings ("Old Testament", "NT", "new_testament").
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	c, ok := categoryAliases[key]
	return c, ok
}

// CoerceCategory maps any label onto the closed set. Unknown labels become
// CategoryTopical.
func CoerceCategory(s string) Category {
	if c, ok := ParseCategory(s); ok {
		return c
	}
	return CategoryTopical
}

// BriefStatus is the processing state of a brief.
type BriefStatus string

const (
	BriefStatusInProgress BriefStatus = "in-progress"
	BriefStatusCompleted  BriefStatus = "completed"
	BriefStatusDraft      BriefStatus = "draft"
)

func (s BriefStatus) String() string { return string(s) }

func (s BriefStatus) IsValid() bool {
	switch s {
	case BriefStatusInProgress, BriefStatusCompleted, BriefStatusDraft:
		return true
	}
	return false
}
