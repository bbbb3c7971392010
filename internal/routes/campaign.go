package routes

import (
	"net/http"

	"Doare/internal/contracts"
	domainCampaign "Doare/internal/domain/campaign"
	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) CreateCampaign(c *gin.Context) {
	var body contracts.CampaignCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	req := domainCampaign.CreateRequest{
		Title:        body.Title,
		Description:  body.Description,
		TargetAmount: decimal.NewFromFloat(body.TargetAmount),
		StartDate:    body.StartDate,
		EndDate:      body.EndDate,
		CreatedBy:    userID,
	}

	ctx := c.Request.Context()
	entity, err := h.CampaignService.CreateCampaign(ctx, &req, h.isAdmin(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.CampaignResponse{Campaign: entity})
}

func (h *Handler) ListCampaigns(c *gin.Context) {
	filters := &domainCampaign.Filters{}
	if status := c.Query("status"); status != "" {
		s := domainCampaign.Status(status)
		filters.Status = &s
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	campaigns, total, err := h.CampaignService.ListCampaigns(ctx, filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := pkg.NewPaginatedResponse(campaigns, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetCampaign(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.respondError(c, appErrors.NewValidationError("id", "é obrigatório"))
		return
	}

	campaignID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	ctx := c.Request.Context()
	entity, err := h.CampaignService.GetCampaignByID(ctx, campaignID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.CampaignResponse{Campaign: entity})
}

func (h *Handler) UpdateCampaign(c *gin.Context) {
	var body contracts.CampaignUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	id := c.Param("id")
	campaignID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	req := domainCampaign.UpdateRequest{
		Id:           campaignID,
		Title:        body.Title,
		Description:  body.Description,
		TargetAmount: decimal.NewFromFloat(body.TargetAmount),
		EndDate:      body.EndDate,
	}

	ctx := c.Request.Context()
	if err := h.CampaignService.UpdateCampaign(ctx, &req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Campanha atualizada com sucesso"})
}

func (h *Handler) ChangeCampaignStatus(c *gin.Context) {
	var body contracts.CampaignStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	id := c.Param("id")
	campaignID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	ctx := c.Request.Context()
	entity, err := h.CampaignService.ChangeStatus(ctx, campaignID, domainCampaign.Status(body.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.CampaignResponse{Campaign: entity})
}

func (h *Handler) SetRootCampaign(c *gin.Context) {
	id := c.Param("id")
	campaignID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	ctx := c.Request.Context()
	if err := h.CampaignService.SetRoot(ctx, campaignID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Campanha institucional definida com sucesso"})
}

func (h *Handler) GetRootCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	entity, err := h.CampaignService.GetRoot(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.CampaignResponse{Campaign: entity})
}

func (h *Handler) DeleteCampaign(c *gin.Context) {
	id := c.Param("id")
	campaignID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	ctx := c.Request.Context()
	if err := h.CampaignService.DeleteCampaign(ctx, campaignID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Campanha removida com sucesso"})
}
