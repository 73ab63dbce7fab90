package entity

import "fmt"

type Movie struct {
	BaseSimple
	Title       string `db:"title"`
	Description string `db:"description"`
	Genre       string `db:"genre"`
	ReleaseYear *int   `db:"release_year"`
}

// DisplayName is "Title (Year)", or just the title when the year is unknown.
func (m *Movie) DisplayName() string {
	if m.ReleaseYear != nil {
		return fmt.Sprintf("%s (%d)", m.Title, *m.ReleaseYear)
	}
	return m.Title
}
