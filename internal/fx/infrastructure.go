package fx

import (
	"Doare/config"
	"Doare/internal/infrastructure"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		newDatabase,
		newUserRepository,
		newCampaignRepository,
		newDonationRepository,
		newPaymentRepository,
		newMetricsRepository,
	),
)

func newDatabase(cfg *config.Config) (*gorm.DB, error) {
	return infrastructure.NewDb(cfg)
}

func newUserRepository(db *gorm.DB) *infrastructure.UserRepository {
	return &infrastructure.UserRepository{DB: db}
}

func newCampaignRepository(db *gorm.DB) *infrastructure.CampaignRepository {
	return &infrastructure.CampaignRepository{DB: db}
}

func newDonationRepository(db *gorm.DB) *infrastructure.DonationRepository {
	return &infrastructure.DonationRepository{DB: db}
}

func newPaymentRepository(db *gorm.DB) *infrastructure.PaymentRepository {
	return &infrastructure.PaymentRepository{DB: db}
}

func newMetricsRepository(db *gorm.DB) *infrastructure.MetricsRepository {
	return &infrastructure.MetricsRepository{DB: db}
}
