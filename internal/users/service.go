package users

import (
	"context"
	"errors"

	"greenvest-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("User not found")

// Service encapsulates user/portfolio queries.
type Service struct {
	DB *gorm.DB
}

// HoldingView is a holding joined with its company for the portfolio view.
type HoldingView struct {
	Holding domain.Holding `json:"holding"`
	Company domain.Company `json:"company"`
}

// Portfolio is the dashboard payload: the user with score snapshot fields
// plus holdings populated with company detail.
type Portfolio struct {
	User     domain.User   `json:"user"`
	Holdings []HoldingView `json:"holdings"`
}

// GetPortfolio returns one user's portfolio and scores.
func (s *Service) GetPortfolio(ctx context.Context, userID uuid.UUID) (*Portfolio, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var holdings []domain.Holding
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&holdings).Error; err != nil {
		return nil, err
	}

	var companies []domain.Company
	if err := s.DB.WithContext(ctx).Find(&companies).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Company, len(companies))
	for _, co := range companies {
		byID[co.CompanyID] = co
	}

	views := make([]HoldingView, 0, len(holdings))
	for _, h := range holdings {
		views = append(views, HoldingView{Holding: h, Company: byID[h.CompanyID]})
	}

	return &Portfolio{User: user, Holdings: views}, nil
}

// List returns all users ordered by name (admin view; password hash is
// excluded by the model's JSON tags).
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.DB.WithContext(ctx).Order("fullname ASC").Find(&users).Error
	return users, err
}

// TradeHistory returns a user's trades, most recent first.
func (s *Service) TradeHistory(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	var trades []domain.Trade
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("\"createdAt\" DESC").
		Find(&trades).Error
	return trades, err
}
