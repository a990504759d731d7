package tag

import "fmt"

// Tag names are not case-normalized: "Red" and "red" are distinct tags.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ColorForName maps a tag name to a stable "#RRGGBB" color using a rolling
// hash over the name's bytes. The same name always yields the same color.
func ColorForName(name string) string {
	var hash uint32
	for _, b := range []byte(name) {
		hash = uint32(b) + hash*31
	}

	return fmt.Sprintf("#%02X%02X%02X", (hash>>16)&0xFF, (hash>>8)&0xFF, hash&0xFF)
}
