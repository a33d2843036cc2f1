package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ESG scores live on a fixed 1-10 scale. The scoring engine converts to
// percentage terms internally; external systems must agree on this scale.
const (
	ESGScoreMin = 1.0
	ESGScoreMax = 10.0
)

// Company is a synthetic green company whose shares are traded during rounds.
// Total shares in circulation (held + available) stay constant outside of
// admin edits.
type Company struct {
	CompanyID       uuid.UUID `gorm:"column:company_id;type:uuid;primaryKey" json:"company_id"`
	Name            string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Sector          string    `gorm:"column:sector;not null" json:"sector"`
	Description     string    `gorm:"column:description;not null" json:"description"`
	StockPrice      float64   `gorm:"column:stock_price;type:decimal(18,2);not null;default:0" json:"stock_price"`
	ESGScore        float64   `gorm:"column:esg_score;not null" json:"esg_score"`
	AvailableShares int64     `gorm:"column:available_shares;not null;default:0" json:"available_shares"`
	CreatedAt       time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Company) TableName() string {
	return "Companies"
}

func (co *Company) BeforeCreate(tx *gorm.DB) error {
	if co.CompanyID == uuid.Nil {
		co.CompanyID = uuid.New()
	}
	return nil
}
