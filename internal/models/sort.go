package models

import "fmt"

// SortCriterion selects the ordering applied to a repository collection.
type SortCriterion string

const (
	SortByComplexity   SortCriterion = "complexity"
	SortByCV           SortCriterion = "cv"
	SortByDate         SortCriterion = "date"
	SortByAlphabetical SortCriterion = "alphabetical"
)

// SortDirection applies to directionable criteria. The cv composite has a
// fixed direction and ignores it.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortCriterion validates a criterion string from an API request or a
// parsed chat action.
func ParseSortCriterion(s string) (SortCriterion, error) {
	switch SortCriterion(s) {
	case SortByComplexity, SortByCV, SortByDate, SortByAlphabetical:
		return SortCriterion(s), nil
	}
	return "", fmt.Errorf("unknown sort criterion %q", s)
}

// ParseSortDirection validates a direction string, defaulting to descending
// when empty (the dashboard's usual "best first" presentation).
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(s) {
	case SortAsc, SortDesc:
		return SortDirection(s), nil
	case "":
		return SortDesc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}
