package users

import (
	"context"
	"testing"
	"time"

	"greenvest-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUsersTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Company{}, &domain.Holding{}, &domain.Trade{}))
	return &Service{DB: db}, db
}

func TestGetPortfolio(t *testing.T) {
	svc, db := setupUsersTest(t)

	user := domain.User{Fullname: "Player", Email: "p@example.com", PasswordHash: "x", CashBalance: 5000, FinalScore: 42}
	require.NoError(t, db.Create(&user).Error)
	company := domain.Company{Name: "Solar One", Sector: "Energy", Description: "d", StockPrice: 50, ESGScore: 8, AvailableShares: 900}
	require.NoError(t, db.Create(&company).Error)
	holding := domain.Holding{UserID: user.UserID, CompanyID: company.CompanyID, Shares: 100}
	require.NoError(t, db.Create(&holding).Error)

	portfolio, err := svc.GetPortfolio(context.Background(), user.UserID)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, portfolio.User.CashBalance)
	assert.Equal(t, 42.0, portfolio.User.FinalScore)
	require.Len(t, portfolio.Holdings, 1)
	assert.Equal(t, int64(100), portfolio.Holdings[0].Holding.Shares)
	assert.Equal(t, "Solar One", portfolio.Holdings[0].Company.Name)
	assert.Equal(t, 50.0, portfolio.Holdings[0].Company.StockPrice)
}

func TestGetPortfolio_NotFound(t *testing.T) {
	svc, _ := setupUsersTest(t)

	_, err := svc.GetPortfolio(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListOrdersByName(t *testing.T) {
	svc, db := setupUsersTest(t)

	for _, name := range []string{"Zoe", "Amir", "Mila"} {
		u := domain.User{Fullname: name, Email: name + "@example.com", PasswordHash: "x"}
		require.NoError(t, db.Create(&u).Error)
	}

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Amir", users[0].Fullname)
	assert.Equal(t, "Mila", users[1].Fullname)
	assert.Equal(t, "Zoe", users[2].Fullname)
}

func TestTradeHistory_MostRecentFirst(t *testing.T) {
	svc, db := setupUsersTest(t)

	user := domain.User{Fullname: "Player", Email: "p@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	companyID := uuid.New()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, tradeType := range []string{domain.TradeBuy, domain.TradeBuy, domain.TradeSell} {
		trade := domain.Trade{
			UserID:    user.UserID,
			CompanyID: companyID,
			Type:      tradeType,
			Shares:    int64(i + 1),
			Price:     50,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&trade).Error)
	}
	// Another user's trade must not leak in.
	other := domain.User{Fullname: "Other", Email: "o@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&domain.Trade{UserID: other.UserID, CompanyID: companyID, Type: domain.TradeBuy, Shares: 9, Price: 50}).Error)

	trades, err := svc.TradeHistory(context.Background(), user.UserID)
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, domain.TradeSell, trades[0].Type)
	assert.Equal(t, int64(3), trades[0].Shares)
	assert.Equal(t, int64(1), trades[2].Shares)
}
