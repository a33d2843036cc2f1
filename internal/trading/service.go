package trading

import (
	"context"
	"math"
	"sync"

	"greenvest-backend/internal/domain"
	"greenvest-backend/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service executes atomic buy/sell operations against a user's holdings and
// a company's available-share pool. All mutations of one trade run in a
// single transaction. Mu serializes trade execution; the app wires the same
// lock into the rounds service so a trade transaction can never interleave
// with a settlement transaction (single instance — for horizontal scaling
// replace with row-level locking).
type Service struct {
	DB  *gorm.DB
	Hub *realtime.Hub // optional; nil disables broadcasting
	Mu  *sync.Mutex   // shared with rounds.Service; self-allocated when nil

	muOnce sync.Once
}

func (s *Service) lock() *sync.Mutex {
	s.muOnce.Do(func() {
		if s.Mu == nil {
			s.Mu = &sync.Mutex{}
		}
	})
	return s.Mu
}

// Result is the payload returned from a successful trade: the immutable
// trade record plus updated user and company snapshots.
type Result struct {
	Trade   domain.Trade   `json:"trade"`
	User    domain.User    `json:"user"`
	Company domain.Company `json:"company"`
}

// ExecuteTrade applies one BUY or SELL as a single atomic unit. Any violated
// precondition aborts with no partial state change.
func (s *Service) ExecuteTrade(ctx context.Context, userID, companyID uuid.UUID, tradeType string, shares int64) (*Result, error) {
	if tradeType != domain.TradeBuy && tradeType != domain.TradeSell {
		return nil, ErrInvalidTradeType
	}
	if shares <= 0 {
		return nil, ErrInvalidShares
	}

	mu := s.lock()
	mu.Lock()
	defer mu.Unlock()

	var result Result

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Trades are gated on an active, trade-enabled round.
		var round domain.Round
		if err := tx.Where("is_active = ? AND trade_enabled = ?", true, true).First(&round).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTradingDisabled
			}
			return err
		}

		var company domain.Company
		if err := tx.Where("company_id = ?", companyID).First(&company).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCompanyNotFound
			}
			return err
		}

		var user domain.User
		if err := tx.Where("user_id = ?", userID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		tradeValue := round2(company.StockPrice * float64(shares))

		var holding domain.Holding
		holdingErr := tx.Where("user_id = ? AND company_id = ?", userID, companyID).First(&holding).Error
		if holdingErr != nil && holdingErr != gorm.ErrRecordNotFound {
			return holdingErr
		}

		switch tradeType {
		case domain.TradeBuy:
			if company.AvailableShares < shares {
				return ErrInsufficientShares
			}
			if user.CashBalance < tradeValue {
				return ErrInsufficientFunds
			}
			company.AvailableShares -= shares
			user.CashBalance = round2(user.CashBalance - tradeValue)

			if holdingErr == gorm.ErrRecordNotFound {
				holding = domain.Holding{UserID: userID, CompanyID: companyID, Shares: shares}
				if err := tx.Create(&holding).Error; err != nil {
					return err
				}
			} else {
				holding.Shares += shares
				if err := tx.Save(&holding).Error; err != nil {
					return err
				}
			}

		case domain.TradeSell:
			if holdingErr == gorm.ErrRecordNotFound || holding.Shares < shares {
				return ErrInsufficientHoldings
			}
			company.AvailableShares += shares
			user.CashBalance = round2(user.CashBalance + tradeValue)

			holding.Shares -= shares
			if holding.Shares == 0 {
				if err := tx.Delete(&holding).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Save(&holding).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Save(&company).Error; err != nil {
			return err
		}

		// Recompute portfolio value over all current holdings, not just the
		// traded company — this catches drift from admin price edits.
		portfolioValue, err := portfolioValueTx(tx, userID, user.CashBalance)
		if err != nil {
			return err
		}
		user.PortfolioValue = portfolioValue
		// Settlement owns the score columns; a trade writes only balances.
		err = tx.Model(&domain.User{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"cash_balance":    user.CashBalance,
				"portfolio_value": user.PortfolioValue,
			}).Error
		if err != nil {
			return err
		}

		trade := domain.Trade{
			UserID:     userID,
			CompanyID:  companyID,
			Type:       tradeType,
			Shares:     shares,
			Price:      company.StockPrice,
			ESGValue:   company.ESGScore,
			TotalValue: tradeValue,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err
		}

		result = Result{Trade: trade, User: user, Company: company}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("trade_id", result.Trade.TradeID.String()).
		Str("user_id", userID.String()).
		Str("company", result.Company.Name).
		Str("type", tradeType).
		Int64("shares", shares).
		Float64("price", result.Trade.Price).
		Float64("total", result.Trade.TotalValue).
		Msg("Trade executed")

	if s.Hub != nil {
		s.Hub.Publish(realtime.EventTradeUpdate, map[string]interface{}{
			"user_id":    userID,
			"company_id": companyID,
			"type":       tradeType,
			"shares":     shares,
			"price":      result.Trade.Price,
		})
		s.Hub.Publish(realtime.EventCompanyUpdate, map[string]interface{}{
			"company_id":       companyID,
			"available_shares": result.Company.AvailableShares,
			"stock_price":      result.Company.StockPrice,
		})
	}

	return &result, nil
}

// portfolioValueTx values cash plus every holding at current prices.
func portfolioValueTx(tx *gorm.DB, userID uuid.UUID, cashBalance float64) (float64, error) {
	var holdings []domain.Holding
	if err := tx.Where("user_id = ?", userID).Find(&holdings).Error; err != nil {
		return 0, err
	}
	var companies []domain.Company
	if err := tx.Find(&companies).Error; err != nil {
		return 0, err
	}
	prices := make(map[uuid.UUID]float64, len(companies))
	for _, co := range companies {
		prices[co.CompanyID] = co.StockPrice
	}

	total := cashBalance
	for _, h := range holdings {
		total += float64(h.Shares) * prices[h.CompanyID]
	}
	return round2(total), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
