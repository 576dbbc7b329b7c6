package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	tourdomain "tour-platform/api/internal/tour/domain"
	"tour-platform/api/internal/tour/service"
)

// TourHandler exposes the tour CRUD routes.
type TourHandler struct {
	svc *service.TourService
}

// NewTourHandler returns a TourHandler backed by the tour service.
func NewTourHandler(svc *service.TourService) *TourHandler {
	return &TourHandler{svc: svc}
}

type createTourRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Price       float64 `json:"price" binding:"gte=0"`
}

type updateTourRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active inactive"`
}

type tourView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

func viewTour(t *tourdomain.Tour) tourView {
	return tourView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Location:    t.Location,
		Price:       t.Price,
		Status:      string(t.Status),
	}
}

// Create handles POST /api/v1/tour/create.
func (h *TourHandler) Create(c *gin.Context) {
	var req createTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	tour, err := h.svc.Create(c.Request.Context(), req.Name, req.Description, req.Location, req.Price)
	if err != nil {
		respondInternal(c)
		return
	}
	respondData(c, http.StatusCreated, viewTour(tour))
}

// GetAll handles GET /api/v1/tour/get-all.
func (h *TourHandler) GetAll(c *gin.Context) {
	tours, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondInternal(c)
		return
	}
	views := make([]tourView, 0, len(tours))
	for _, t := range tours {
		views = append(views, viewTour(t))
	}
	respondData(c, http.StatusOK, views)
}

// Get handles GET /api/v1/tour/get/:id.
func (h *TourHandler) Get(c *gin.Context) {
	tour, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(c)
		return
	}
	respondData(c, http.StatusOK, viewTour(tour))
}

// Update handles PUT /api/v1/tour/update/:id.
func (h *TourHandler) Update(c *gin.Context) {
	var req updateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var status *tourdomain.TourStatus
	if req.Status != nil {
		s := tourdomain.TourStatus(*req.Status)
		status = &s
	}
	tour, err := h.svc.Update(c.Request.Context(), c.Param("id"), service.TourUpdate{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Status:      status,
	})
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(c)
		return
	}
	respondDataMessage(c, http.StatusOK, viewTour(tour), "Tour updated successfully")
}

// Delete handles DELETE /api/v1/tour/delete/:id.
func (h *TourHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(c)
		return
	}
	respondMessage(c, http.StatusOK, "Tour deleted successfully")
}
