package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gruzdev-dev/codex-users/configs"
	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/services"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	userService *services.UserService
	auth        *AuthMiddleware
}

func NewHandler(userService *services.UserService, cfg *configs.Config) *Handler {
	return &Handler{
		userService: userService,
		auth:        NewAuthMiddleware(cfg.Auth.JWTSecret),
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.Use(h.auth.Handler)

	router.HandleFunc("/users", h.ListUsers).Methods("GET")
	router.HandleFunc("/users/active", h.ListActiveUsers).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}", h.GetUser).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}", h.SaveUser).Methods("PUT")
	router.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods("DELETE")
	router.HandleFunc("/users/{id:[0-9]+}/avatar", h.GenerateAvatarUpload).Methods("POST")
}

type userResponse struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
	IsActive bool    `json:"is_active"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		IsActive: u.IsActive,
	}
}

type saveUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
	IsActive *bool   `json:"is_active"`
}

type avatarUploadRequest struct {
	ContentType string `json:"content_type"`
}

type avatarUploadResponse struct {
	UploadURL string `json:"upload_url"`
	AvatarURL string `json:"avatar_url"`
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListActiveUsers(w http.ResponseWriter, r *http.Request) {
	active, err := h.userService.ActiveUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]userResponse, 0)
	for u := range active {
		resp = append(resp, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *Handler) SaveUser(w http.ResponseWriter, r *http.Request) {
	if !canWrite(w, r) {
		return
	}

	id, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req saveUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := domain.NewUser(id, req.Name, req.Email)
	if req.Avatar != nil {
		user = user.WithAvatar(*req.Avatar)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.userService.SaveUser(r.Context(), &user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !canWrite(w, r) {
		return
	}

	id, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	removed, err := h.userService.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": removed})
}

func (h *Handler) GenerateAvatarUpload(w http.ResponseWriter, r *http.Request) {
	if !canWrite(w, r) {
		return
	}

	id, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req avatarUploadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.userService.GenerateAvatarUpload(r.Context(), id, req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avatarUploadResponse{
		UploadURL: result.UploadURL,
		AvatarURL: result.AvatarURL,
	})
}

func userID(r *http.Request) (uint64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad user id %q", domain.ErrInvalidInput, raw)
	}
	return id, nil
}

func canWrite(w http.ResponseWriter, r *http.Request) bool {
	user, ok := IdentityFromCtx(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if !user.CanWriteUsers() {
		writeError(w, domain.ErrAccessDenied)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, fmt.Errorf("%w: malformed body: %v", domain.ErrInvalidInput, err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidEmail):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrAccessDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrAvatarsUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
