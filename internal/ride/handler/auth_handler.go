package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"greenride/internal/ride/service"
	"greenride/pkg/auth"
)

// RegisterRequest is the body for the /register endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // "PASSENGER" or "DRIVER"
}

// LoginRequest is the body for the /login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the successful login/register response.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// Register handles new user registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("register_decode_error", err)
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Username == "" || req.Password == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "Username, password, and role are required")
		return
	}

	var role auth.Role
	switch req.Role {
	case "PASSENGER":
		role = auth.RolePassenger
	case "DRIVER":
		role = auth.RoleDriver
	case "ADMIN":
		// Admin accounts are provisioned out of band.
		writeError(w, http.StatusForbidden, "Admin registration is not allowed")
		return
	default:
		writeError(w, http.StatusBadRequest, "Invalid role. Must be PASSENGER or DRIVER")
		return
	}

	user, err := h.authUC.Register(r.Context(), service.RegisterCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     string(role),
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "A user with this username already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.writeToken(w, http.StatusCreated, user.ID, user.Username, role)
}

// Login handles authentication for existing users.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("login_decode_error", err)
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.authUC.Login(r.Context(), service.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	h.writeToken(w, http.StatusOK, user.ID, user.Username, auth.Role(user.Role))
}

func (h *Handler) writeToken(w http.ResponseWriter, status int, userID, username string, role auth.Role) {
	token, err := h.jwtManager.GenerateToken(userID, username, role)
	if err != nil {
		h.log.Error("generate_token_failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, status, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		UserID:    userID,
		Username:  username,
		Role:      string(role),
	})
}
