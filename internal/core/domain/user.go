package domain

import "time"

// Role is the application-level tier assigned to a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// User models a registered account.
//
// ConfirmationCode holds the bcrypt hash of the code emailed at signup; the
// plaintext is never persisted. Active flips to true on the first successful
// token exchange.
type User struct {
	ID               string    `json:"-"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name,omitempty"`
	LastName         string    `json:"last_name,omitempty"`
	Bio              string    `json:"bio,omitempty"`
	Role             Role      `json:"role"`
	Active           bool      `json:"-"`
	Staff            bool      `json:"-"`
	Superuser        bool      `json:"-"`
	ConfirmationCode string    `json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// Actor is the identity behind a request, possibly anonymous.
type Actor struct {
	Username      string
	Role          Role
	Authenticated bool
	Staff         bool
	Superuser     bool
}

// Anonymous returns the actor used for unauthenticated requests.
func Anonymous() Actor {
	return Actor{}
}

// ActorFor builds an Actor from a stored user record.
func ActorFor(u *User) Actor {
	return Actor{
		Username:      u.Username,
		Role:          u.Role,
		Authenticated: true,
		Staff:         u.Staff,
		Superuser:     u.Superuser,
	}
}

// IsAdmin reports whether the actor carries admin-tier rights: either the
// admin role or the platform staff flag.
func (a Actor) IsAdmin() bool {
	return a.Staff || a.Role == RoleAdmin
}

// IsModerator reports whether the actor has the moderator role.
func (a Actor) IsModerator() bool {
	return a.Role == RoleModerator
}

// Elevated reports whether the actor satisfies admin-level checks regardless
// of role (superuser and staff always do).
func (a Actor) Elevated() bool {
	return a.Superuser || a.Staff || a.IsAdmin()
}
