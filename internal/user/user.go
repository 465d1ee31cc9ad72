package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the owning identity every entity is scoped to.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}
