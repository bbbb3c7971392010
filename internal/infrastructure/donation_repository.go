package infrastructure

import (
	"context"
	"errors"
	"time"

	"Doare/internal/domain/donation"
	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DonationRepository struct {
	DB *gorm.DB
}

type donationDB struct {
	Id           string          `gorm:"type:varchar(26);primaryKey"`
	CampaignId   string          `gorm:"type:varchar(26);not null"`
	DonorId      string          `gorm:"type:varchar(26);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Periodicity  *string         `gorm:"type:varchar(20)"`
	OriginId     *string         `gorm:"type:varchar(26)"`
	NextChargeAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func toDomainDonation(ddb *donationDB) (*donation.Donation, error) {
	id, err := pkg.ParseULID(ddb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	campaignID, err := pkg.ParseULID(ddb.CampaignId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	donorID, err := pkg.ParseULID(ddb.DonorId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}

	var periodicity *donation.Periodicity
	if ddb.Periodicity != nil {
		p := donation.Periodicity(*ddb.Periodicity)
		periodicity = &p
	}

	var originID *ulid.ULID
	if ddb.OriginId != nil {
		parsed, err := pkg.ParseULID(*ddb.OriginId)
		if err != nil {
			return nil, appErrors.ErrInternalServer.WithError(err)
		}
		originID = &parsed
	}

	return &donation.Donation{
		Id:           id,
		CampaignId:   campaignID,
		DonorId:      donorID,
		Amount:       ddb.Amount,
		Periodicity:  periodicity,
		OriginId:     originID,
		NextChargeAt: ddb.NextChargeAt,
		CreatedAt:    ddb.CreatedAt,
		UpdatedAt:    ddb.UpdatedAt,
	}, nil
}

func toDBDonation(d *donation.Donation) *donationDB {
	ddb := &donationDB{
		Id:           d.Id.String(),
		CampaignId:   d.CampaignId.String(),
		DonorId:      d.DonorId.String(),
		Amount:       d.Amount,
		NextChargeAt: d.NextChargeAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Periodicity != nil {
		p := string(*d.Periodicity)
		ddb.Periodicity = &p
	}
	if d.OriginId != nil {
		o := d.OriginId.String()
		ddb.OriginId = &o
	}
	return ddb
}

func (r *DonationRepository) Create(ctx context.Context, d *donation.Donation) error {
	ddb := toDBDonation(d)
	if err := r.DB.WithContext(ctx).Table("donations").Create(&ddb).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *DonationRepository) Update(ctx context.Context, d *donation.Donation) error {
	ddb := toDBDonation(d)
	if err := r.DB.WithContext(ctx).Table("donations").Where("id = ?", ddb.Id).Updates(&ddb).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *DonationRepository) GetById(ctx context.Context, id ulid.ULID) (*donation.Donation, error) {
	var ddb donationDB
	if err := r.DB.WithContext(ctx).Table("donations").Where("id = ?", id.String()).First(&ddb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrDonationNotFound.WithError(err)
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return toDomainDonation(&ddb)
}

func (r *DonationRepository) GetByIdAndDonor(ctx context.Context, id, donorID ulid.ULID) (*donation.Donation, error) {
	var ddb donationDB
	if err := r.DB.WithContext(ctx).Table("donations").
		Where("id = ? AND donor_id = ?", id.String(), donorID.String()).
		First(&ddb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrDonationNotFound.WithError(err)
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return toDomainDonation(&ddb)
}

func (r *DonationRepository) ListByDonor(ctx context.Context, donorID ulid.ULID, pagination *pkg.PaginationParams) ([]*donation.Donation, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("donations").Where("donor_id = ?", donorID.String())
	out, total, err := pkg.Paginate(baseQuery, pagination, "created_at DESC", toDomainDonation)
	if err != nil {
		if appErrors.IsAppError(err) {
			return nil, 0, err
		}
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return out, total, nil
}

func (r *DonationRepository) ListByCampaign(ctx context.Context, campaignID ulid.ULID, pagination *pkg.PaginationParams) ([]*donation.Donation, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("donations").Where("campaign_id = ?", campaignID.String())
	out, total, err := pkg.Paginate(baseQuery, pagination, "created_at DESC", toDomainDonation)
	if err != nil {
		if appErrors.IsAppError(err) {
			return nil, 0, err
		}
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return out, total, nil
}

func (r *DonationRepository) ListRecurringDue(ctx context.Context, cutoff time.Time, limit int) ([]*donation.Donation, error) {
	var rows []donationDB
	if err := r.DB.WithContext(ctx).Table("donations").
		Where("periodicity IS NOT NULL AND periodicity NOT IN ?", []string{
			string(donation.PeriodicityCanceled),
			string(donation.PeriodicityOneTime),
		}).
		Where("next_charge_at IS NOT NULL AND next_charge_at <= ?", cutoff).
		Order("next_charge_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	out := make([]*donation.Donation, 0, len(rows))
	for i := range rows {
		d, err := toDomainDonation(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// UpdateSchedule com periodicity nula mantém a cadência atual e só move a
// próxima cobrança.
func (r *DonationRepository) UpdateSchedule(ctx context.Context, id ulid.ULID, periodicity *donation.Periodicity, nextChargeAt *time.Time) error {
	fields := map[string]interface{}{
		"next_charge_at": nextChargeAt,
		"updated_at":     time.Now(),
	}
	if periodicity != nil {
		fields["periodicity"] = string(*periodicity)
	}

	result := r.DB.WithContext(ctx).Table("donations").Where("id = ?", id.String()).Updates(fields)
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrDonationNotFound
	}
	return nil
}
