package domain

// Region top-level geographic grouping (regions table)
type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
