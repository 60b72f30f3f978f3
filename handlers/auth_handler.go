package handlers

import (
	"errors"
	"net/http"

	"github.com/cueclub/tournament-engine/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	FullName string  `json:"full_name"`
	Nickname *string `json:"nickname"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	if req.FullName == "" || req.Email == "" || len(req.Password) < 8 {
		errorResponse(w, http.StatusBadRequest, "full_name, email and a password of at least 8 characters are required")
		return
	}

	player, err := h.authService.Register(r.Context(), req.FullName, req.Email, req.Password, req.Nickname)
	if err != nil {
		if errors.Is(err, services.ErrEmailAlreadyTaken) {
			conflictResponse(w, err.Error())
			return
		}
		serverErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"player": player})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	token, player, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			unauthorizedResponse(w, err.Error())
			return
		}
		serverErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"token": token, "player": player})
}
