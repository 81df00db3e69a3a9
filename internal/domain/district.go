package domain

// District geographic district, belongs to a region (districts table)
type District struct {
	ID       int64  `json:"id"`
	RegionID int64  `json:"region_id"`
	Name     string `json:"name"`
}
