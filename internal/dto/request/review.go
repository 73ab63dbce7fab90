package request

import (
	"strconv"
	"strings"

	"movie-review/pkg/utils"

	"github.com/goccy/go-json"
)

// Rating is a review score. It decodes from a JSON number or its decimal
// string form, so "4" and 4.0 both read as 4.
type Rating int

func (r *Rating) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if dot := strings.IndexByte(raw, '.'); dot >= 0 && strings.Trim(raw[dot+1:], "0") == "" {
		raw = raw[:dot]
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return utils.FieldError("rating", "A valid integer is required.")
	}
	*r = Rating(n)
	return nil
}

// Int returns the score, or 0 for a nil r.
func (r *Rating) Int() int {
	if r == nil {
		return 0
	}
	return int(*r)
}

// CreateReviewRequest carries the author implicitly. User and UserID only
// exist so a client that tries to set them can be rejected.
type CreateReviewRequest struct {
	MovieID string          `json:"movie_id" validate:"required,uuid"`
	Rating  *Rating         `json:"rating" validate:"required,rating"`
	Content string          `json:"content" validate:"required"`
	User    json.RawMessage `json:"user,omitempty" validate:"-"`
	UserID  json.RawMessage `json:"user_id,omitempty" validate:"-"`
}

// ReadOnlyFields lists the author fields present in the body.
func (r CreateReviewRequest) ReadOnlyFields() []string {
	var fields []string
	if r.User != nil {
		fields = append(fields, "user")
	}
	if r.UserID != nil {
		fields = append(fields, "user_id")
	}
	return fields
}

type UpdateReviewRequest struct {
	MovieID string  `json:"movie_id" validate:"required,uuid"`
	Rating  *Rating `json:"rating" validate:"required,rating"`
	Content string  `json:"content" validate:"required"`
}

// PatchReviewRequest is a partial update; nil fields are left unchanged.
type PatchReviewRequest struct {
	MovieID *string `json:"movie_id,omitempty" validate:"omitempty,uuid"`
	Rating  *Rating `json:"rating,omitempty" validate:"omitempty,rating"`
	Content *string `json:"content,omitempty"`
}

func (r *CreateReviewRequest) Normalize() {
	r.MovieID = strings.TrimSpace(r.MovieID)
	r.Content = strings.TrimSpace(r.Content)
}

func (r *UpdateReviewRequest) Normalize() {
	r.MovieID = strings.TrimSpace(r.MovieID)
	r.Content = strings.TrimSpace(r.Content)
}

func (r *PatchReviewRequest) Normalize() {
	trimPtr(r.MovieID)
	trimPtr(r.Content)
}
