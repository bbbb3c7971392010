package fx

import (
	"Doare/config"
	"Doare/internal/domain/auth"
	"Doare/internal/domain/campaign"
	"Doare/internal/domain/donation"
	"Doare/internal/domain/metrics"
	"Doare/internal/domain/payment"
	"Doare/internal/domain/user"
	"Doare/internal/infrastructure"

	"go.uber.org/fx"
)

// DomainModule fornece todos os services do domínio
var DomainModule = fx.Module("domain",
	fx.Provide(
		newUserService,
		newAuthService,
		newCampaignService,
		newPaymentService,
		newDonationService,
		newMetricsService,
	),
)

func newUserService(repo *infrastructure.UserRepository) *user.Service {
	return user.NewService(repo)
}

func newAuthService(repo *infrastructure.UserRepository, userSvc *user.Service) *auth.Service {
	return auth.NewService(repo, userSvc)
}

func newCampaignService(
	repo *infrastructure.CampaignRepository,
	userSvc *user.Service,
) *campaign.Service {
	return campaign.NewService(repo, userSvc)
}

func newPaymentService(
	repo *infrastructure.PaymentRepository,
	cfg *config.Config,
) *payment.Service {
	return payment.NewService(repo, cfg.Payment.PendingWindow)
}

func newDonationService(
	repo *infrastructure.DonationRepository,
	campaignSvc *campaign.Service,
	paymentSvc *payment.Service,
	userSvc *user.Service,
) *donation.Service {
	return donation.NewService(repo, campaignSvc, paymentSvc, userSvc)
}

func newMetricsService(repo *infrastructure.MetricsRepository) *metrics.Service {
	return metrics.NewService(repo)
}
