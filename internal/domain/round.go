package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Round is a timed trading window. At most one round has IsActive=true at
// any time; settlement flips IsActive and TradeEnabled to false exactly once.
type Round struct {
	RoundID      uuid.UUID `gorm:"column:round_id;type:uuid;primaryKey" json:"round_id"`
	RoundNumber  int       `gorm:"column:round_number;not null;uniqueIndex" json:"round_number"`
	StartTime    time.Time `gorm:"column:start_time;not null" json:"start_time"`
	EndTime      time.Time `gorm:"column:end_time;not null" json:"end_time"`
	IsActive     bool      `gorm:"column:is_active;not null;default:false" json:"is_active"`
	TradeEnabled bool      `gorm:"column:trade_enabled;not null;default:false" json:"trade_enabled"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Round) TableName() string {
	return "Rounds"
}

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.RoundID == uuid.Nil {
		r.RoundID = uuid.New()
	}
	return nil
}
