package routes

import (
	"net/http"

	"Doare/internal/contracts"
	"Doare/internal/domain/auth"
	"Doare/internal/domain/user"
	appErrors "Doare/internal/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var body contracts.RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	entity := &user.User{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Password: body.Password,
	}

	ctx := c.Request.Context()
	if err := h.AuthService.Register(ctx, entity); err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.JwtService.GenerateToken(entity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.AuthResponse{Token: token, User: entity})
}

func (h *Handler) Login(c *gin.Context) {
	var body contracts.LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	ctx := c.Request.Context()
	entity, err := h.AuthService.Login(ctx, auth.Login{Email: body.Email, Password: body.Password})
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.JwtService.GenerateToken(entity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.AuthResponse{Token: token, User: entity})
}

func (h *Handler) Me(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.UserService.GetByID(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}
