package domain

// Identity is the authenticated actor of a request, as established by the
// auth middleware from a verified token.
type Identity struct {
	Username string
	IsAdmin  bool
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LoginRequest is the body of POST /auth/token.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
