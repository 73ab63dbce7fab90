package entity

import (
	"time"

	"github.com/google/uuid"
)

type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

type BaseNoDelete struct {
	BaseSimple
	UpdatedAt time.Time `db:"updated_at"`
}
