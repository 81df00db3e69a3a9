package repository

import "encoding/json"

// encodeVolunteers serializes a volunteer list to the stored JSON-array text.
// Empty or nil always encodes to "[]", never NULL.
func encodeVolunteers(v []int64) string {
	if len(v) == 0 {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeVolunteers parses the stored JSON-array text. Corrupt legacy values
// degrade to an empty list instead of failing the whole read.
func decodeVolunteers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	var out []int64
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []int64{}
	}
	return out
}
