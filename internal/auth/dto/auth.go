package dto

import authdomain "leafscan-backend/internal/auth/domain"

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string                `json:"token"`
	User  authdomain.PublicUser `json:"user"`
}
