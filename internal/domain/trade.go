package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trade types.
const (
	TradeBuy  = "BUY"
	TradeSell = "SELL"
)

// Trade is an immutable audit record of one executed trade. Rows are
// append-only: never updated, never deleted.
type Trade struct {
	TradeID    uuid.UUID `gorm:"column:trade_id;type:uuid;primaryKey" json:"trade_id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	CompanyID  uuid.UUID `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	Type       string    `gorm:"column:type;type:varchar(4);not null" json:"type"`
	Shares     int64     `gorm:"column:shares;not null" json:"shares"`
	Price      float64   `gorm:"column:price;type:decimal(18,2);not null" json:"price"`
	ESGValue   float64   `gorm:"column:esg_value;not null" json:"esg_value"`
	TotalValue float64   `gorm:"column:total_value;type:decimal(18,2);not null" json:"total_value"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Trade) TableName() string {
	return "Trades"
}

func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.TradeID == uuid.Nil {
		t.TradeID = uuid.New()
	}
	return nil
}
