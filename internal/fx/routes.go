package fx

import (
	"time"

	"Doare/internal/domain/auth"
	"Doare/internal/domain/campaign"
	"Doare/internal/domain/donation"
	"Doare/internal/domain/metrics"
	"Doare/internal/domain/payment"
	"Doare/internal/domain/user"
	"Doare/internal/middleware"
	"Doare/internal/routes"

	"go.uber.org/fx"
)

// RoutesModule fornece o handler e os rate limiters
var RoutesModule = fx.Module("routes",
	fx.Provide(
		newHandler,
		newAuthRateLimiter,
	),
)

func newHandler(
	userSvc *user.Service,
	authSvc *auth.Service,
	jwtSvc *middleware.JwtService,
	campaignSvc *campaign.Service,
	donationSvc *donation.Service,
	paymentSvc *payment.Service,
	metricsSvc *metrics.Service,
) *routes.Handler {
	return &routes.Handler{
		UserService:     userSvc,
		AuthService:     authSvc,
		JwtService:      jwtSvc,
		CampaignService: campaignSvc,
		DonationService: donationSvc,
		PaymentService:  paymentSvc,
		MetricsService:  metricsSvc,
	}
}

func newAuthRateLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(100, time.Minute)
}
