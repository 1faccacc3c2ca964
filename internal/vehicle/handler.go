package vehicle

import (
	"fmt"
	"net/http"
	"time"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
	"github.com/GarageBook/GarageBook/internal/common/logger"
	"github.com/GarageBook/GarageBook/internal/common/server"
	"github.com/GarageBook/GarageBook/internal/common/timeutil"
	"github.com/gin-gonic/gin"
)

// Handler /vehicles 路由的 HTTP 处理器（仅挂在鉴权分组下）。
type Handler struct {
	registry *Registry
	log      logger.Logger
}

func NewHandler(registry *Registry, log logger.Logger) *Handler {
	return &Handler{registry: registry, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/vehicles", h.list)
	r.POST("/vehicles", h.create)
	r.PUT("/vehicles/:id", h.update)
	r.DELETE("/vehicles/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	ownerID, ok := server.AuthUserID(c)
	if !ok {
		server.WriteError(c, h.log, apperr.ErrUnauthorized)
		return
	}
	vehicles, err := h.registry.List(c.Request.Context(), ownerID)
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	if vehicles == nil {
		vehicles = []Vehicle{}
	}
	c.JSON(http.StatusOK, vehicles)
}

type createReq struct {
	VehicleNumber      string `json:"vehicleNumber"`
	VehicleType        string `json:"vehicleType"`
	Brand              string `json:"brand"`
	Notes              string `json:"notes"`
	RegistrationNumber string `json:"registrationNumber"`
	RegistrationExpiry string `json:"registrationExpiry"`
}

func (h *Handler) create(c *gin.Context) {
	ownerID, ok := server.AuthUserID(c)
	if !ok {
		server.WriteError(c, h.log, apperr.ErrUnauthorized)
		return
	}
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		server.WriteError(c, h.log, fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput))
		return
	}

	var expiry *time.Time
	if req.RegistrationExpiry != "" {
		when, err := timeutil.ParseDate(req.RegistrationExpiry)
		if err != nil {
			server.WriteError(c, h.log, fmt.Errorf("invalid registrationExpiry: %w", apperr.ErrInvalidInput))
			return
		}
		expiry = &when
	}

	v, err := h.registry.Create(c.Request.Context(), ownerID, CreateInput{
		VehicleNumber:      req.VehicleNumber,
		VehicleType:        req.VehicleType,
		Brand:              req.Brand,
		Notes:              req.Notes,
		RegistrationNumber: req.RegistrationNumber,
		RegistrationExpiry: expiry,
	})
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

type patchReq struct {
	VehicleNumber      *string `json:"vehicleNumber"`
	VehicleType        *string `json:"vehicleType"`
	Brand              *string `json:"brand"`
	Notes              *string `json:"notes"`
	RegistrationNumber *string `json:"registrationNumber"`
	RegistrationExpiry *string `json:"registrationExpiry"`
}

func (h *Handler) update(c *gin.Context) {
	ownerID, ok := server.AuthUserID(c)
	if !ok {
		server.WriteError(c, h.log, apperr.ErrUnauthorized)
		return
	}
	var req patchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		server.WriteError(c, h.log, fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput))
		return
	}

	patch := Patch{
		VehicleNumber:      req.VehicleNumber,
		VehicleType:        req.VehicleType,
		Brand:              req.Brand,
		Notes:              req.Notes,
		RegistrationNumber: req.RegistrationNumber,
	}
	if req.RegistrationExpiry != nil {
		when, err := timeutil.ParseDate(*req.RegistrationExpiry)
		if err != nil {
			server.WriteError(c, h.log, fmt.Errorf("invalid registrationExpiry: %w", apperr.ErrInvalidInput))
			return
		}
		patch.RegistrationExpiry = &when
	}

	v, err := h.registry.Update(c.Request.Context(), ownerID, c.Param("id"), patch)
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) delete(c *gin.Context) {
	ownerID, ok := server.AuthUserID(c)
	if !ok {
		server.WriteError(c, h.log, apperr.ErrUnauthorized)
		return
	}
	if err := h.registry.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
