package routes

import (
	"net/http"
	"time"

	appErrors "Doare/internal/errors"

	"github.com/gin-gonic/gin"
)

// GetDonationMetrics agrega o arrecadado confirmado no período informado.
// A granularidade da série (diária, semanal ou mensal) é decidida pelo
// serviço a partir do tamanho do intervalo.
func (h *Handler) GetDonationMetrics(c *gin.Context) {
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	if startDateStr == "" || endDateStr == "" {
		h.respondError(c, appErrors.NewValidationError("period", "start_date e end_date sao obrigatorios"))
		return
	}

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("start_date", "formato invalido. Use YYYY-MM-DD"))
		return
	}

	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("end_date", "formato invalido. Use YYYY-MM-DD"))
		return
	}

	ctx := c.Request.Context()
	response, err := h.MetricsService.GetDonationMetrics(ctx, startDate, endDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
