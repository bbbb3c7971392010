package infrastructure

import (
	"context"
	"errors"
	"time"

	"Doare/internal/domain/payment"
	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	DB *gorm.DB
}

// errCASConflict sinaliza rollback sem erro para o chamador: a versão lida
// ficou obsoleta ou o livro-razão já tem a transição.
var errCASConflict = errors.New("payment transition conflict")

type paymentDB struct {
	Id         string          `gorm:"type:varchar(26);primaryKey"`
	DonationId string          `gorm:"type:varchar(26);not null"`
	CampaignId string          `gorm:"type:varchar(26);not null"`
	Method     payment.Method  `gorm:"not null"`
	Status     payment.Status  `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAt     *time.Time
	Version    int `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type paymentTransitionDB struct {
	Id           string         `gorm:"type:varchar(26);primaryKey"`
	PaymentId    string         `gorm:"type:varchar(26);not null"`
	TargetStatus payment.Status `gorm:"not null"`
	AppliedAt    time.Time      `gorm:"not null"`
}

func toDomainPayment(pdb *paymentDB) (*payment.Payment, error) {
	id, err := pkg.ParseULID(pdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	donationID, err := pkg.ParseULID(pdb.DonationId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	campaignID, err := pkg.ParseULID(pdb.CampaignId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &payment.Payment{
		Id:         id,
		DonationId: donationID,
		CampaignId: campaignID,
		Method:     pdb.Method,
		Status:     pdb.Status,
		Amount:     pdb.Amount,
		PaidAt:     pdb.PaidAt,
		Version:    pdb.Version,
		CreatedAt:  pdb.CreatedAt,
		UpdatedAt:  pdb.UpdatedAt,
	}, nil
}

func toDBPayment(p *payment.Payment) *paymentDB {
	return &paymentDB{
		Id:         p.Id.String(),
		DonationId: p.DonationId.String(),
		CampaignId: p.CampaignId.String(),
		Method:     p.Method,
		Status:     p.Status,
		Amount:     p.Amount,
		PaidAt:     p.PaidAt,
		Version:    p.Version,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	pdb := toDBPayment(p)
	if err := r.DB.WithContext(ctx).Table("payments").Create(&pdb).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *PaymentRepository) GetById(ctx context.Context, id ulid.ULID) (*payment.Payment, error) {
	var pdb paymentDB
	if err := r.DB.WithContext(ctx).Table("payments").Where("id = ?", id.String()).First(&pdb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrPaymentNotFound.WithError(err)
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return toDomainPayment(&pdb)
}

func (r *PaymentRepository) GetByDonationId(ctx context.Context, donationID ulid.ULID) (*payment.Payment, error) {
	var pdb paymentDB
	if err := r.DB.WithContext(ctx).Table("payments").Where("donation_id = ?", donationID.String()).First(&pdb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrPaymentNotFound.WithError(err)
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return toDomainPayment(&pdb)
}

// Apply compromete status, livro-razão e delta da campanha na mesma
// transação. Conflito de versão ou transição já registrada retorna
// (false, nil) para o serviço reler e reavaliar.
func (r *PaymentRepository) Apply(ctx context.Context, req *payment.TransitionApply) (bool, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		fields := map[string]interface{}{
			"status":     string(req.Target),
			"version":    req.ExpectedVersion + 1,
			"updated_at": now,
		}
		if req.PaidAt != nil {
			fields["paid_at"] = req.PaidAt
		}

		result := tx.Table("payments").
			Where("id = ? AND version = ?", req.PaymentID.String(), req.ExpectedVersion).
			Updates(fields)
		if result.Error != nil {
			return appErrors.NewDatabaseError(result.Error)
		}
		if result.RowsAffected == 0 {
			return errCASConflict
		}

		ledger := paymentTransitionDB{
			Id:           pkg.GenerateULID(),
			PaymentId:    req.PaymentID.String(),
			TargetStatus: req.Target,
			AppliedAt:    now,
		}
		insert := tx.Table("payment_transitions").
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&ledger)
		if insert.Error != nil {
			return appErrors.NewDatabaseError(insert.Error)
		}
		if insert.RowsAffected == 0 {
			return errCASConflict
		}

		if !req.CampaignDelta.IsZero() {
			result := tx.Table("campaigns").
				Where("id = ?", req.CampaignID.String()).
				Updates(map[string]interface{}{
					"current_amount": gorm.Expr("current_amount + ?", req.CampaignDelta),
					"updated_at":     now,
				})
			if result.Error != nil {
				return appErrors.NewDatabaseError(result.Error)
			}
			if result.RowsAffected == 0 {
				return appErrors.ErrCampaignNotFound
			}
		}

		return nil
	})

	if errors.Is(err, errCASConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PaymentRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	var rows []paymentDB
	if err := r.DB.WithContext(ctx).Table("payments").
		Where("status = ? AND created_at <= ?", string(payment.StatusPending), cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	out := make([]*payment.Payment, 0, len(rows))
	for i := range rows {
		p, err := toDomainPayment(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PaymentRepository) ListByCampaign(ctx context.Context, campaignID ulid.ULID, status *payment.Status) ([]*payment.Payment, error) {
	query := r.DB.WithContext(ctx).Table("payments").Where("campaign_id = ?", campaignID.String())
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var rows []paymentDB
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	out := make([]*payment.Payment, 0, len(rows))
	for i := range rows {
		p, err := toDomainPayment(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
