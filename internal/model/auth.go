package model

// AuthState tracks whether the user has signed in to the backend.
type AuthState int

const (
	// Anonymous means no successful login has happened yet.
	Anonymous AuthState = iota
	// Authenticated means the backend accepted the user's credentials.
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Credentials are the values posted to the login endpoint.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
