package todo

import "strings"

// Record A single todo entry
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Patch The fields of a [Record] that can be changed by [Store.Update]. A nil field
// is left untouched. The id is not part of the patch and can never be overwritten
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty Reports if the patch would not change any field
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

func (p Patch) validate() error {
	if p.Title != nil && isBlank(*p.Title) {
		return &ValidationError{Field: "title"}
	}

	if p.Description != nil && isBlank(*p.Description) {
		return &ValidationError{Field: "description"}
	}

	return nil
}

func (p Patch) apply(record *Record) {
	if p.Title != nil {
		record.Title = *p.Title
	}

	if p.Description != nil {
		record.Description = *p.Description
	}

	if p.Completed != nil {
		record.Completed = *p.Completed
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func indexOf(records []Record, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}

	return -1
}
