package domain

import "strings"

// Category request category (categories table)
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Violations: []string{"name must not be empty"}}
	}
	return nil
}
