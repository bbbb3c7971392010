package campaign

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Campaign struct {
	Id            ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	Title         string          `gorm:"type:varchar(100);not null;index:idx_campaigns_title" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"targetAmount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"currentAmount"`
	StartDate     time.Time       `gorm:"type:timestamp;not null" json:"startDate"`
	EndDate       time.Time       `gorm:"type:timestamp;not null" json:"endDate"`
	Status        Status          `gorm:"type:varchar(20);not null;index:idx_campaigns_status" json:"status"`
	IsRoot        bool            `gorm:"not null;default:false;index:idx_campaigns_is_root" json:"isRoot"`
	CreatedBy     ulid.ULID       `gorm:"type:varchar(26);index:idx_campaigns_created_by;not null" json:"createdBy"`
	Version       int             `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusPaused   Status = "PAUSED"
	StatusFinished Status = "FINISHED"
	StatusCanceled Status = "CANCELED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusPaused, StatusFinished, StatusCanceled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCanceled
}

// transitions define os destinos legais de cada estado. FINISHED e CANCELED
// são terminais: nenhuma transição sai deles.
var transitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusCanceled},
	StatusActive:  {StatusPaused, StatusFinished, StatusCanceled},
	StatusPaused:  {StatusActive, StatusCanceled},
}

func CanTransition(from, to Status) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}
