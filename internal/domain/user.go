package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles.
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// User is a registered player. The score fields (AvgESGScore, SectorScore,
// NormalizedValue, FinalScore, SectorDistribution) are snapshots written by
// round settlement only. PortfolioValue is also maintained live on every
// trade: cash balance plus mark-to-market value of all holdings.
type User struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname     string    `gorm:"column:fullname;not null" json:"fullname"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"column:role;not null;default:player" json:"role"`

	CashBalance    float64 `gorm:"column:cash_balance;type:decimal(18,2);not null;default:0" json:"cash_balance"`
	PortfolioValue float64 `gorm:"column:portfolio_value;type:decimal(18,2);not null;default:0" json:"portfolio_value"`

	AvgESGScore           float64        `gorm:"column:avg_esg_score;not null;default:0" json:"avg_esg_score"`
	NormalizedValue       float64        `gorm:"column:normalized_value;not null;default:0" json:"normalized_value"`
	NormalizedESG         float64        `gorm:"column:normalized_esg;not null;default:0" json:"normalized_esg"`
	SectorScore           float64        `gorm:"column:sector_score;not null;default:0" json:"sector_score"`
	NormalizedSectorScore float64        `gorm:"column:normalized_sector_score;not null;default:0" json:"normalized_sector_score"`
	FinalScore            float64        `gorm:"column:final_score;not null;default:0" json:"final_score"`
	SectorDistribution    datatypes.JSON `gorm:"column:sector_distribution" json:"sector_distribution"`

	Holdings []Holding `gorm:"foreignKey:UserID;references:UserID" json:"holdings,omitempty"`

	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (User) TableName() string {
	return "Users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
