package api

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued on login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// UserCreateRequest is the payload for POST /v1/admin/users.
type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse describes an admin-visible user.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Disabled  bool   `json:"disabled"`
	CreatedAt string `json:"created_at"`
}

// UserDisableRequest toggles a user's disabled flag.
type UserDisableRequest struct {
	Disabled bool `json:"disabled"`
}
