package maintenance

import (
	"fmt"
	"net/http"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
	"github.com/GarageBook/GarageBook/internal/common/logger"
	"github.com/GarageBook/GarageBook/internal/common/server"
	"github.com/gin-gonic/gin"
)

// Handler /services 路由的 HTTP 处理器（仅挂在鉴权分组下）。
type Handler struct {
	ledger *Ledger
	log    logger.Logger
}

func NewHandler(ledger *Ledger, log logger.Logger) *Handler {
	return &Handler{ledger: ledger, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/services", h.list)
	r.GET("/services/vehicle/:vehicleId", h.listByVehicle)
	r.POST("/services", h.create)
	r.PUT("/services/:id", h.update)
	r.DELETE("/services/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	ownerID, ok := server.AuthUserID(c)
	if !ok {
		server.WriteError(c, h.log, apperr.ErrUnauthorized)
		return
	}
	records, err := h.ledger.List(c.Request.Context(), ownerID)
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) listByVehicle(c *gin.Context) {
	ownerID, ok := server.AuthUserID(c)
	if !ok {
		server.WriteError(c, h.log, apperr.ErrUnauthorized)
		return
	}
	services, err := h.ledger.ListByVehicle(c.Request.Context(), ownerID, c.Param("vehicleId"))
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	if services == nil {
		services = []Service{}
	}
	c.JSON(http.StatusOK, services)
}

type createReq struct {
	VehicleID          string  `json:"vehicleId"`
	ServiceDescription string  `json:"serviceDescription"`
	ServiceDate        string  `json:"serviceDate"`
	ServiceCost        float64 `json:"serviceCost"`
	ServiceProvider    string  `json:"serviceProvider"`
	Notes              string  `json:"notes"`
	NextServiceDate    string  `json:"nextServiceDate"`
	ServiceType        string  `json:"serviceType"`
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

	record, err := h.ledger.Create(c.Request.Context(), ownerID, CreateInput{
		VehicleID:          req.VehicleID,
		ServiceDescription: req.ServiceDescription,
		ServiceDate:        req.ServiceDate,
		ServiceCost:        req.ServiceCost,
		ServiceProvider:    req.ServiceProvider,
		Notes:              req.Notes,
		NextServiceDate:    req.NextServiceDate,
		ServiceType:        req.ServiceType,
	})
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

type patchReq struct {
	VehicleID          *string  `json:"vehicleId"`
	ServiceDescription *string  `json:"serviceDescription"`
	ServiceDate        *string  `json:"serviceDate"`
	ServiceCost        *float64 `json:"serviceCost"`
	ServiceProvider    *string  `json:"serviceProvider"`
	Notes              *string  `json:"notes"`
	NextServiceDate    *string  `json:"nextServiceDate"`
	ServiceType        *string  `json:"serviceType"`
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

	record, err := h.ledger.Update(c.Request.Context(), ownerID, c.Param("id"), Patch{
		VehicleID:          req.VehicleID,
		ServiceDescription: req.ServiceDescription,
		ServiceDate:        req.ServiceDate,
		ServiceCost:        req.ServiceCost,
		ServiceProvider:    req.ServiceProvider,
		Notes:              req.Notes,
		NextServiceDate:    req.NextServiceDate,
		ServiceType:        req.ServiceType,
	})
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) delete(c *gin.Context) {
	ownerID, ok := server.AuthUserID(c)
	if !ok {
		server.WriteError(c, h.log, apperr.ErrUnauthorized)
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
