package infrastructure

import (
	"context"
	"errors"
	"time"

	"Doare/internal/domain/campaign"
	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CampaignRepository struct {
	DB *gorm.DB
}

type campaignDB struct {
	Id            string          `gorm:"type:varchar(26);primaryKey"`
	Title         string          `gorm:"not null"`
	Description   string          `gorm:"type:text"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	StartDate     time.Time
	EndDate       time.Time
	Status        campaign.Status `gorm:"not null"`
	IsRoot        bool            `gorm:"not null"`
	CreatedBy     string          `gorm:"type:varchar(26);not null"`
	Version       int             `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func toDomainCampaign(cdb *campaignDB) (*campaign.Campaign, error) {
	id, err := pkg.ParseULID(cdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	creator, err := pkg.ParseULID(cdb.CreatedBy)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &campaign.Campaign{
		Id:            id,
		Title:         cdb.Title,
		Description:   cdb.Description,
		TargetAmount:  cdb.TargetAmount,
		CurrentAmount: cdb.CurrentAmount,
		StartDate:     cdb.StartDate,
		EndDate:       cdb.EndDate,
		Status:        cdb.Status,
		IsRoot:        cdb.IsRoot,
		CreatedBy:     creator,
		Version:       cdb.Version,
		CreatedAt:     cdb.CreatedAt,
		UpdatedAt:     cdb.UpdatedAt,
	}, nil
}

func toDBCampaign(c *campaign.Campaign) *campaignDB {
	return &campaignDB{
		Id:            c.Id.String(),
		Title:         c.Title,
		Description:   c.Description,
		TargetAmount:  c.TargetAmount,
		CurrentAmount: c.CurrentAmount,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		Status:        c.Status,
		IsRoot:        c.IsRoot,
		CreatedBy:     c.CreatedBy.String(),
		Version:       c.Version,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	cdb := toDBCampaign(c)
	if err := r.DB.WithContext(ctx).Table("campaigns").Create(&cdb).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *CampaignRepository) Update(ctx context.Context, c *campaign.Campaign) error {
	cdb := toDBCampaign(c)
	if err := r.DB.WithContext(ctx).Table("campaigns").Where("id = ?", cdb.Id).Updates(&cdb).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *CampaignRepository) UpdateStatusCAS(ctx context.Context, id ulid.ULID, expectedVersion int, fields map[string]interface{}) (bool, error) {
	result := r.DB.WithContext(ctx).Table("campaigns").
		Where("id = ? AND version = ?", id.String(), expectedVersion).
		Updates(fields)
	if result.Error != nil {
		return false, appErrors.NewDatabaseError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result := r.DB.WithContext(ctx).Table("campaigns").Where("id = ?", id.String()).Delete(&campaignDB{})
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepository) GetById(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error) {
	var cdb campaignDB
	if err := r.DB.WithContext(ctx).Table("campaigns").Where("id = ?", id.String()).First(&cdb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrCampaignNotFound.WithError(err)
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return toDomainCampaign(&cdb)
}

func (r *CampaignRepository) List(ctx context.Context, filters *campaign.Filters, pagination *pkg.PaginationParams) ([]*campaign.Campaign, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("campaigns")
	if filters != nil && filters.Status != nil {
		baseQuery = baseQuery.Where("status = ?", string(*filters.Status))
	}

	out, total, err := pkg.Paginate(baseQuery, pagination, "created_at DESC", toDomainCampaign)
	if err != nil {
		if appErrors.IsAppError(err) {
			return nil, 0, err
		}
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return out, total, nil
}

func (r *CampaignRepository) FindRoot(ctx context.Context) (*campaign.Campaign, error) {
	var cdb campaignDB
	if err := r.DB.WithContext(ctx).Table("campaigns").Where("is_root = ?", true).First(&cdb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return toDomainCampaign(&cdb)
}

// SetRoot troca o detentor do flag em uma única transação: limpa o anterior,
// marca o novo e confere que restou exatamente um root antes de commitar.
func (r *CampaignRepository) SetRoot(ctx context.Context, id ulid.ULID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		if err := tx.Table("campaigns").
			Where("is_root = ? AND id <> ?", true, id.String()).
			Updates(map[string]interface{}{"is_root": false, "updated_at": now}).Error; err != nil {
			return appErrors.NewDatabaseError(err)
		}

		result := tx.Table("campaigns").
			Where("id = ?", id.String()).
			Updates(map[string]interface{}{"is_root": true, "updated_at": now})
		if result.Error != nil {
			return appErrors.NewDatabaseError(result.Error)
		}
		if result.RowsAffected == 0 {
			return appErrors.ErrCampaignNotFound
		}

		var roots int64
		if err := tx.Table("campaigns").Where("is_root = ?", true).Count(&roots).Error; err != nil {
			return appErrors.NewDatabaseError(err)
		}
		if roots != 1 {
			return appErrors.NewExclusivityViolationError("isRoot")
		}

		return nil
	})
}

func (r *CampaignRepository) CountDonations(ctx context.Context, campaignID ulid.ULID) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Table("donations").
		Where("campaign_id = ?", campaignID.String()).
		Count(&count).Error; err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}
	return count, nil
}
