package model

import "time"

// User represents a row in the `user` table. The password column holds a
// bcrypt hash; the plaintext is never stored. Scope is a set of role tags
// (e.g. ["user"] or ["admin"]) persisted as a JSON array column.
//
// Fields:
//  ID        – primary key identifier of the user.
//  FirstName – first name (min 3 chars, enforced at the handler layer).
//  LastName  – last name (min 3 chars).
//  Username  – display username.
//  Email     – unique email address, used for login.
//  Password  – bcrypt hash of the password.
//  Scope     – role tags used for route-level authorization.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // never serialized in responses
	Scope     []string  `json:"scope"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPatch carries the optional fields of a partial user update. Password,
// when present, must already be hashed by the caller. Scope replaces the
// whole role set when supplied.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Username  *string
	Email     *string
	Password  *string
	Scope     *[]string
}

// Empty reports whether the patch would change nothing.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Username == nil &&
		p.Email == nil && p.Password == nil && p.Scope == nil
}

// HasScope reports whether the user carries the given role tag.
func (u User) HasScope(scope string) bool {
	for _, s := range u.Scope {
		if s == scope {
			return true
		}
	}
	return false
}
