package api

import (
	"encoding/json"
	"net/http"

	"adria/internal/entities"
)

type AuthHandler struct {
	Service AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}

	token, err := h.Service.AdminLogin(req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *AuthHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	var req entities.UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Name and a valid email are required", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.UserLogin(req.Name, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
