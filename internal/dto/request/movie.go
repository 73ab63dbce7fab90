package request

import "strings"

// MovieRequest is the full representation accepted by create and PUT.
type MovieRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Genre       string `json:"genre" validate:"max=100"`
	ReleaseYear *int   `json:"release_year" validate:"omitempty,min=1"`
}

// MovieUpdateRequest is a PATCH body; nil fields are left unchanged.
type MovieUpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	ReleaseYear *int    `json:"release_year,omitempty" validate:"omitempty,min=1"`
}

// Normalize trims surrounding whitespace from text fields.
func (r *MovieRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Genre = strings.TrimSpace(r.Genre)
}

func (r *MovieUpdateRequest) Normalize() {
	trimPtr(r.Title)
	trimPtr(r.Description)
	trimPtr(r.Genre)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
