package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/userdock/userdock/internal/accounts/service"
	"github.com/userdock/userdock/pkg/httpx"
	"github.com/userdock/userdock/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a new user account from a username, password, email and gender
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerRequest	true	"Registration fields"
//	@Success		201		{object}	MessageResponse	"message"
//	@Failure		400		{object}	MessageResponse	"missing fields or username conflict"
//	@Failure		500		{object}	MessageResponse	"message"
//	@Router			/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An unreadable body carries no fields, which is the same failure
		// as an empty one from the caller's point of view.
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: "All fields are required!"})
		return
	}

	err := h.AuthService.Register(ctx, req.Username, req.Password, req.Email, req.Gender)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusCreated, MessageResponse{Message: "User registered successfully!"})
	case errors.Is(err, service.ErrMissingFields):
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: "All fields are required!"})
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: "Username already exists!"})
	default:
		log.Error("registration failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Internal Server Error"})
	}
}
