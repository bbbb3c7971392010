package contracts

import (
	domainDonation "Doare/internal/domain/donation"
	domainPayment "Doare/internal/domain/payment"
)

type DonationCreateRequest struct {
	// CampaignID ausente direciona a doação para a campanha institucional.
	CampaignID  *string `json:"campaign_id" binding:"omitempty,len=26"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Periodicity *string `json:"periodicity" binding:"omitempty,oneof=ONE_TIME MONTHLY QUARTERLY SEMI_ANNUAL YEARLY"`
	Method      string  `json:"method" binding:"required,oneof=PIX BANK_SLIP CREDIT_CARD"`
}

type DonationPeriodicityRequest struct {
	Periodicity string `json:"periodicity" binding:"required,oneof=ONE_TIME MONTHLY QUARTERLY SEMI_ANNUAL YEARLY CANCELED"`
}

type DonationResponse struct {
	Donation *domainDonation.Donation `json:"donation"`
	Payment  *domainPayment.Payment   `json:"payment,omitempty"`
}

type PaymentResponse struct {
	Payment *domainPayment.Payment `json:"payment"`
}

type SweepResponse struct {
	Processed int `json:"processed"`
}
