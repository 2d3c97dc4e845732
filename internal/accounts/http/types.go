package http

// MessageResponse is the single-field body every non-login response uses.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserProjection is the non-sensitive view of a user returned on login.
// The password hash is deliberately absent and must stay that way.
type UserProjection struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
}

// LoginResponse is the success body for POST /login.
type LoginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    UserProjection `json:"user"`
}
