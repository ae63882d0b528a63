package entity

import (
	coreEntity "secret-santa-api/core/entity"

	"github.com/google/uuid"
)

// User is an organizer account. Admins manage everything; guests manage
// only the events granted to them, up to MaxEvents of their own.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	MaxEvents    int       `db:"max_events" json:"max_events"`
	coreEntity.BaseEntity
}

type PaginatedUserEntity = coreEntity.Pagination[User]
