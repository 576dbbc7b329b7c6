package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	auditdomain "tour-platform/api/internal/audit/domain"
	"tour-platform/api/internal/server/middleware"
)

// AuditLister reads back a user's audit trail.
type AuditLister interface {
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*auditdomain.AuditLog, error)
}

// ActivityHandler exposes the caller's own audit trail.
type ActivityHandler struct {
	audits AuditLister
}

// NewActivityHandler returns an ActivityHandler backed by the audit repository.
func NewActivityHandler(audits AuditLister) *ActivityHandler {
	return &ActivityHandler{audits: audits}
}

type activityView struct {
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	activityDefaultLimit = 20
	activityMaxLimit     = 100
)

// List handles GET /auth/activity. limit and offset come from the query
// string; limit is capped so one request cannot drain the table.
func (h *ActivityHandler) List(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	limit := queryInt(c, "limit", activityDefaultLimit)
	if limit < 1 || limit > activityMaxLimit {
		limit = activityDefaultLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	entries, err := h.audits.ListByUser(c.Request.Context(), ident.ID, int32(limit), int32(offset))
	if err != nil {
		respondInternal(c)
		return
	}
	views := make([]activityView, 0, len(entries))
	for _, e := range entries {
		views = append(views, activityView{
			Action:    e.Action,
			Resource:  e.Resource,
			IP:        e.IP,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	respondData(c, http.StatusOK, views)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
