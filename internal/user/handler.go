package user

import (
	"fmt"
	"net/http"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
	"github.com/GarageBook/GarageBook/internal/common/logger"
	"github.com/GarageBook/GarageBook/internal/common/server"
	"github.com/gin-gonic/gin"
)

// Handler /auth 路由的 HTTP 处理器。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register 挂载路由。public 不经过鉴权，authed 已带 JWTAuth middleware。
func (h *Handler) Register(public, authed gin.IRouter) {
	public.POST("/auth/register", h.register)
	public.POST("/auth/login", h.login)
	authed.GET("/auth/me", h.me)
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		server.WriteError(c, h.log, fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput))
		return
	}

	sum, err := h.svc.Register(c.Request.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		server.WriteError(c, h.log, fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput))
		return
	}

	token, expiresAt, sum, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.Unix(),
		"user":      sum,
	})
}

func (h *Handler) me(c *gin.Context) {
	userID, ok := server.AuthUserID(c)
	if !ok {
		server.WriteError(c, h.log, apperr.ErrUnauthorized)
		return
	}
	sum, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		server.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
