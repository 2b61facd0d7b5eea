package entity

import "time"

// Employee is a staff member acting in one department role
type Employee struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	Email          string    `json:"email"`
	CredentialHash string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Actor is the identity a request is performed as
type Actor struct {
	ID   string `json:"actorId"`
	Role Role   `json:"actorRole"`
}

// IsAdmin returns true for the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
