package domain

import "context"

// User is the public shape of a user row. It has no credential field, so a
// User value can never leak the password hash.
type User struct {
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	IsAdmin   bool    `json:"isAdmin"`
	Locations []int64 `json:"locations,omitempty"`
	Records   []int64 `json:"records,omitempty"`
}

// NewUser is the registration payload. Password holds plaintext on the way
// into the logic layer and the bcrypt hash on the way into the repository.
type NewUser struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=72"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserUpdate is a partial update of a user; nil fields are left untouched.
//
// WARNING: this can set a new password or grant admin. The repository
// applies it as given; UserService.Update only lets admins set IsAdmin.
type UserUpdate struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=30"`
	Password  *string `json:"password" binding:"omitempty,min=5,max=72"`
	Email     *string `json:"email" binding:"omitempty,email,max=60"`
	IsAdmin   *bool   `json:"isAdmin"`
}

// Fields returns the supplied fields in declaration order.
func (u UserUpdate) Fields() []Field {
	var fields []Field
	fields = appendIfSet(fields, "firstName", u.FirstName)
	fields = appendIfSet(fields, "lastName", u.LastName)
	fields = appendIfSet(fields, "password", u.Password)
	fields = appendIfSet(fields, "email", u.Email)
	fields = appendIfSet(fields, "isAdmin", u.IsAdmin)
	return fields
}

// UserRepository defines the data-access contract for users.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL or pgx directly.
type UserRepository interface {
	// Create inserts a user whose Password is already hashed.
	// Returns ErrConflict when the username is taken.
	Create(ctx context.Context, u NewUser) (User, error)

	// Get returns the user with the ids of its locations and records.
	// Returns ErrNotFound when no user matches.
	Get(ctx context.Context, username string) (User, error)

	// FindAll returns every user ordered by username.
	FindAll(ctx context.Context) ([]User, error)

	// GetCredentials returns the user together with its stored password hash.
	// Returns ErrNotFound when no user matches.
	GetCredentials(ctx context.Context, username string) (User, string, error)

	// Update applies a partial update; a supplied Password must already be hashed.
	// Returns ErrBadRequest for an empty update and ErrNotFound when no user matches.
	Update(ctx context.Context, username string, u UserUpdate) (User, error)

	// Remove deletes the user and, through cascading foreign keys, its
	// locations and records. Returns ErrNotFound when no user matches.
	Remove(ctx context.Context, username string) error
}
