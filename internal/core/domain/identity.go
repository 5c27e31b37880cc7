package domain

import "time"

// Identity is the base account record. Doctor and patient facets hang off its ID.
type Identity struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	SecretHash string    `json:"-"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Roles      RoleSet   `json:"roles"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Principal returns the authenticated view of the identity.
func (i *Identity) Principal() Principal {
	return Principal{ID: i.ID, Username: i.Username, Roles: i.Roles}
}
