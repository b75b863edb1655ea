package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"buzzline/internal/httputil"
	"buzzline/internal/model"
	"buzzline/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Register handles POST /auth/register
// Creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already registered")
		case errors.Is(err, model.ErrFirstNameRequired),
			errors.Is(err, model.ErrEmailRequired),
			errors.Is(err, model.ErrPasswordRequired):
			httputil.WriteBadRequest(w, err.Error())
		default:
			log.Printf("[ERROR] Register handler: email=%s err=%v", req.Email, err)
			httputil.WriteInternalError(w, "Failed to register user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
// Verifies credentials and returns the user record.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteBadRequest(w, "Invalid email or password")
			return
		}
		log.Printf("[ERROR] Login handler: email=%s err=%v", req.Email, err)
		httputil.WriteInternalError(w, "Failed to log in")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
