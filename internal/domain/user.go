package domain

import (
	"time"
)

// User role constants.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account row. The reviewer identities that product reviews are
// attributed to are pre-seeded users referenced by id only.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	Role        string    `json:"role"`
	Avatar      string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupportRequest is a message submitted through the public contact form.
type SupportRequest struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// GenderPreference selects which reviewer identity pool product reviews are
// attributed to.
type GenderPreference string

const (
	GenderAll   GenderPreference = "all"
	GenderWoman GenderPreference = "woman"
	GenderMan   GenderPreference = "man"
)

// Valid reports whether the preference is one of the known values.
func (g GenderPreference) Valid() bool {
	switch g {
	case GenderAll, GenderWoman, GenderMan:
		return true
	}
	return false
}
