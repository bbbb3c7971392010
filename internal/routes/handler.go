package routes

import (
	"Doare/internal/domain/auth"
	"Doare/internal/domain/campaign"
	"Doare/internal/domain/donation"
	"Doare/internal/domain/metrics"
	"Doare/internal/domain/payment"
	"Doare/internal/domain/user"
	appErrors "Doare/internal/errors"
	"Doare/internal/logger"
	"Doare/internal/middleware"
	"Doare/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

type Handler struct {
	UserService     *user.Service
	AuthService     *auth.Service
	JwtService      *middleware.JwtService
	CampaignService *campaign.Service
	DonationService *donation.Service
	PaymentService  *payment.Service
	MetricsService  *metrics.Service
}

func (h *Handler) GetUserIDFromContext(c *gin.Context) (ulid.ULID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return ulid.ULID{}, appErrors.ErrUnauthorized
	}

	userID, err := pkg.ParseULID(userIDStr.(string))
	if err != nil {
		return ulid.ULID{}, appErrors.ErrUnauthorized.WithError(err)
	}

	return userID, nil
}

func (h *Handler) isAdmin(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	return exists && role == string(user.RoleAdmin)
}

func (h *Handler) parsePagination(c *gin.Context) *pkg.PaginationParams {
	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	var pageNum, limitNum int
	if p, err := pkg.ParseInt(page); err == nil && p > 0 {
		pageNum = p
	} else {
		pageNum = 1
	}

	if l, err := pkg.ParseInt(limit); err == nil && l > 0 {
		limitNum = l
	} else {
		limitNum = 10
	}

	return &pkg.PaginationParams{
		Page:  pageNum,
		Limit: limitNum,
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	event := logger.Error().Str("code", appErr.Code).Str("path", c.FullPath())
	if appErr.Err != nil {
		event = event.Err(appErr.Err)
	}
	event.Msg("request_error")
	payload := gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	c.JSON(appErr.StatusCode, payload)
}
