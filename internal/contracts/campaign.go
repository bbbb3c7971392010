package contracts

import (
	"time"

	domainCampaign "Doare/internal/domain/campaign"
)

type CampaignCreateRequest struct {
	Title        string    `json:"title" binding:"required,min=3,max=100"`
	Description  string    `json:"description" binding:"omitempty,max=2000"`
	TargetAmount float64   `json:"target_amount" binding:"required,gte=0"`
	StartDate    time.Time `json:"start_date" binding:"required"`
	EndDate      time.Time `json:"end_date" binding:"required"`
}

type CampaignUpdateRequest struct {
	Title        string    `json:"title" binding:"required,min=3,max=100"`
	Description  string    `json:"description" binding:"omitempty,max=2000"`
	TargetAmount float64   `json:"target_amount" binding:"required,gte=0"`
	EndDate      time.Time `json:"end_date" binding:"required"`
}

type CampaignStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING ACTIVE PAUSED FINISHED CANCELED"`
}

type CampaignResponse struct {
	Campaign *domainCampaign.Campaign `json:"campaign"`
}
