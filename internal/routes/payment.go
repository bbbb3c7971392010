package routes

import (
	"net/http"

	"Doare/internal/contracts"
	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

func (h *Handler) GetPayment(c *gin.Context) {
	paymentID, err := h.paymentIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.PaymentService.GetPaymentByID(ctx, paymentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.PaymentResponse{Payment: entity})
}

// ConfirmPayment é o callback de confirmação do gateway. A transição é
// idempotente: reentregas do mesmo evento respondem 200 sem efeito.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	paymentID, err := h.paymentIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.PaymentService.Confirm(ctx, paymentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.PaymentResponse{Payment: entity})
}

func (h *Handler) FailPayment(c *gin.Context) {
	paymentID, err := h.paymentIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.PaymentService.Fail(ctx, paymentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.PaymentResponse{Payment: entity})
}

func (h *Handler) RefundPayment(c *gin.Context) {
	paymentID, err := h.paymentIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.PaymentService.Refund(ctx, paymentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.PaymentResponse{Payment: entity})
}

func (h *Handler) CancelPayment(c *gin.Context) {
	paymentID, err := h.paymentIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.PaymentService.Cancel(ctx, paymentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.PaymentResponse{Payment: entity})
}

// ExpirePendingPayments varre pagamentos PENDING além da janela configurada
// e os cancela. Rota administrativa.
func (h *Handler) ExpirePendingPayments(c *gin.Context) {
	ctx := c.Request.Context()
	processed, err := h.PaymentService.ExpirePending(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.SweepResponse{Processed: processed})
}

func (h *Handler) paymentIDParam(c *gin.Context) (ulid.ULID, error) {
	id := c.Param("id")
	if id == "" {
		return ulid.ULID{}, appErrors.NewValidationError("id", "é obrigatório")
	}

	paymentID, err := pkg.ParseULID(id)
	if err != nil {
		return ulid.ULID{}, appErrors.NewValidationError("id", "formato inválido")
	}

	return paymentID, nil
}
