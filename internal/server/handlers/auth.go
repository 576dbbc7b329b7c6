package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tour-platform/api/internal/auth/service"
	"tour-platform/api/internal/server/middleware"
	sessiondomain "tour-platform/api/internal/session/domain"
	userdomain "tour-platform/api/internal/user/domain"
)

// AuthHandler exposes registration, login, logout, and profile routes.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler returns an AuthHandler backed by the auth service.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Mobile    string `json:"mobile"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Username  *string `json:"username" binding:"omitempty,min=1"`
	Mobile    *string `json:"mobile"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

type userView struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	RoleID    string `json:"roleId"`
	RoleName  string `json:"roleName"`
	Status    string `json:"status"`
}

func viewUser(u *userdomain.User) userView {
	return userView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Mobile:    u.Mobile,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		Status:    string(u.Status),
	}
}

// sessionView deliberately omits the token hash; it never leaves the server.
type sessionView struct {
	ID         string    `json:"id"`
	Valid      bool      `json:"valid"`
	LastUsedAt time.Time `json:"lastUsedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func viewSession(s *sessiondomain.Session) sessionView {
	return sessionView{
		ID:         s.ID,
		Valid:      s.Valid,
		LastUsedAt: s.LastUsedAt,
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.svc.Register(c.Request.Context(),
		req.FirstName, req.LastName, req.Username, req.Email, req.Mobile, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered),
			errors.Is(err, service.ErrUsernameAlreadyTaken):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c)
		}
		return
	}
	respondData(c, http.StatusCreated, viewUser(user))
}

// Login handles POST /auth/login. Credential failures always answer with the
// same message regardless of which part was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respondInternal(c)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  viewUser(res.User),
	})
}

// Logout handles POST /auth/logout. The route is unauthenticated on purpose:
// the token being logged out is taken straight from the header, and a missing
// header gets its own sub-code.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		middleware.AbortWithCode(c, http.StatusUnauthorized, "Unauthorized", middleware.CodeNoLogoutToken)
		return
	}
	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrSessionAlreadyInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(c)
		return
	}
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

// LogoutAll handles POST /auth/logout-all. Requires authentication.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	if err := h.svc.LogoutAll(c.Request.Context(), ident.ID); err != nil {
		respondInternal(c)
		return
	}
	respondMessage(c, http.StatusOK, "Logged out from all devices successfully")
}

// GetUser handles GET /auth/user.
func (h *AuthHandler) GetUser(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	user, err := h.svc.GetProfile(c.Request.Context(), ident.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(c)
		return
	}
	respondData(c, http.StatusOK, viewUser(user))
}

// Sessions handles GET /auth/sessions: the caller's sessions, newest first,
// including invalidated and expired ones.
func (h *AuthHandler) Sessions(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	sessions, err := h.svc.ListSessions(c.Request.Context(), ident.ID)
	if err != nil {
		respondInternal(c)
		return
	}
	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, viewSession(s))
	}
	respondData(c, http.StatusOK, views)
}

// UpdateUser handles PUT /auth/update-user.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), ident.ID, service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Mobile:    req.Mobile,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUsernameAlreadyTaken):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c)
		}
		return
	}
	respondDataMessage(c, http.StatusOK, viewUser(user), "User updated successfully")
}

// UpdatePassword handles PUT /auth/update-password.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), ident.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			respondInternal(c)
		}
		return
	}
	respondMessage(c, http.StatusOK, "Password updated successfully. Please login again.")
}
