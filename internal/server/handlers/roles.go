package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	roledomain "tour-platform/api/internal/role/domain"
	"tour-platform/api/internal/role/service"
)

// RoleHandler exposes the superadmin role CRUD routes.
type RoleHandler struct {
	svc *service.RoleService
}

// NewRoleHandler returns a RoleHandler backed by the role service.
func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

type createRoleRequest struct {
	RoleName    string `json:"roleName" binding:"required"`
	Description string `json:"description"`
}

type updateRoleRequest struct {
	RoleName    *string `json:"roleName" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=active disabled"`
}

type roleView struct {
	ID          string `json:"id"`
	RoleName    string `json:"roleName"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func viewRole(r *roledomain.Role) roleView {
	return roleView{
		ID:          r.ID,
		RoleName:    r.RoleName,
		Description: r.Description,
		Status:      string(r.Status),
	}
}

// Create handles POST /api/v1/user-role/create.
func (h *RoleHandler) Create(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	role, err := h.svc.Create(c.Request.Context(), req.RoleName, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrRoleNameTaken) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(c)
		return
	}
	respondData(c, http.StatusCreated, viewRole(role))
}

// GetAll handles GET /api/v1/user-role/get-all.
func (h *RoleHandler) GetAll(c *gin.Context) {
	roles, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondInternal(c)
		return
	}
	views := make([]roleView, 0, len(roles))
	for _, r := range roles {
		views = append(views, viewRole(r))
	}
	respondData(c, http.StatusOK, views)
}

// Get handles GET /api/v1/user-role/get/:id.
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(c)
		return
	}
	respondData(c, http.StatusOK, viewRole(role))
}

// Update handles PUT /api/v1/user-role/update/:id.
func (h *RoleHandler) Update(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var status *roledomain.RoleStatus
	if req.Status != nil {
		s := roledomain.RoleStatus(*req.Status)
		status = &s
	}
	role, err := h.svc.Update(c.Request.Context(), c.Param("id"), service.RoleUpdate{
		RoleName:    req.RoleName,
		Description: req.Description,
		Status:      status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRoleNameTaken):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c)
		}
		return
	}
	respondDataMessage(c, http.StatusOK, viewRole(role), "Role updated successfully")
}

// Delete handles DELETE /api/v1/user-role/delete/:id. A role still assigned
// to users answers 409.
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRoleInUse):
			respondError(c, http.StatusConflict, err.Error())
		default:
			respondInternal(c)
		}
		return
	}
	respondMessage(c, http.StatusOK, "Role deleted successfully")
}
