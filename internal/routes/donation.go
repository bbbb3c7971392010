package routes

import (
	"net/http"

	"Doare/internal/contracts"
	domainDonation "Doare/internal/domain/donation"
	domainPayment "Doare/internal/domain/payment"
	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

func (h *Handler) CreateDonation(c *gin.Context) {
	var body contracts.DonationCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var campaignID *ulid.ULID
	if body.CampaignID != nil {
		parsed, err := pkg.ParseULID(*body.CampaignID)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("campaign_id", "formato inválido"))
			return
		}
		campaignID = &parsed
	}

	var periodicity *domainDonation.Periodicity
	if body.Periodicity != nil {
		p := domainDonation.Periodicity(*body.Periodicity)
		periodicity = &p
	}

	req := domainDonation.CreateRequest{
		CampaignId:  campaignID,
		DonorId:     userID,
		Amount:      decimal.NewFromFloat(body.Amount),
		Periodicity: periodicity,
		Method:      domainPayment.Method(body.Method),
	}

	ctx := c.Request.Context()
	result, err := h.DonationService.CreateDonation(ctx, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.DonationResponse{Donation: result.Donation, Payment: result.Payment})
}

func (h *Handler) ListMyDonations(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	donations, total, err := h.DonationService.ListByDonor(ctx, userID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := pkg.NewPaginatedResponse(donations, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}

func (h *Handler) ListCampaignDonations(c *gin.Context) {
	id := c.Param("id")
	campaignID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	donations, total, err := h.DonationService.ListByCampaign(ctx, campaignID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := pkg.NewPaginatedResponse(donations, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetDonation(c *gin.Context) {
	id := c.Param("id")
	donationID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	var entity *domainDonation.Donation
	if h.isAdmin(c) {
		entity, err = h.DonationService.GetDonationByID(ctx, donationID)
	} else {
		entity, err = h.DonationService.GetOwnedDonation(ctx, donationID, userID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	payment, err := h.PaymentService.GetByDonationID(ctx, donationID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.DonationResponse{Donation: entity, Payment: payment})
}

func (h *Handler) SetDonationPeriodicity(c *gin.Context) {
	var body contracts.DonationPeriodicityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	id := c.Param("id")
	donationID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.DonationService.SetPeriodicity(ctx, donationID, userID, domainDonation.Periodicity(body.Periodicity)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Periodicidade atualizada com sucesso"})
}

func (h *Handler) CancelRecurringDonation(c *gin.Context) {
	id := c.Param("id")
	donationID, err := pkg.ParseULID(id)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.DonationService.CancelRecurring(ctx, donationID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Recorrência cancelada com sucesso"})
}

// ProcessDueCharges dispara a rodada de cobranças recorrentes vencidas.
// Rota administrativa, pensada para ser chamada por um scheduler externo.
func (h *Handler) ProcessDueCharges(c *gin.Context) {
	ctx := c.Request.Context()
	processed, err := h.DonationService.ProcessDueCharges(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.SweepResponse{Processed: processed})
}
