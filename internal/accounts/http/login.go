package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/userdock/userdock/internal/accounts/service"
	"github.com/userdock/userdock/pkg/httpx"
	"github.com/userdock/userdock/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Verify credentials and issue a signed session token valid for one hour
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse	"message, token, user"
//	@Failure		400		{object}	MessageResponse	"missing fields"
//	@Failure		401		{object}	MessageResponse	"invalid credentials"
//	@Failure		500		{object}	MessageResponse	"message"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: "Both fields are required!"})
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Username, req.Password)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, LoginResponse{
			Message: "Login successful!",
			Token:   token,
			User: UserProjection{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
				Gender:   user.Gender,
			},
		})
	case errors.Is(err, service.ErrMissingFields):
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: "Both fields are required!"})
	case errors.Is(err, service.ErrInvalidCredentials):
		// One body for unknown-user and wrong-password, byte for byte.
		httpx.WriteJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Invalid username or password"})
	default:
		log.Error("login failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Internal Server Error"})
	}
}
