// Package rounds owns the trading-round lifecycle: NoActiveRound → Active →
// Ended. Starting a round schedules an automatic settlement at its end time;
// manual end and timer fire race, and settlement runs at most once per round.
package rounds

import (
	"context"
	"sync"
	"time"

	"greenvest-backend/internal/domain"
	"greenvest-backend/internal/realtime"
	"greenvest-backend/internal/scoring"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LeaderboardCache is rebuilt from fresh metrics after every settlement.
type LeaderboardCache interface {
	Rebuild(ctx context.Context, metrics []scoring.Metrics) error
}

// Service is the round state machine.
type Service struct {
	DB          *gorm.DB
	Hub         *realtime.Hub    // optional
	Clock       Clock            // SystemClock in production, fake in tests
	Leaderboard LeaderboardCache // optional

	// Mu serializes start and settle so the manual-end/timer-fire race is
	// decided by the active-flag claim, never by interleaved transactions.
	// The app wires the trading service's lock here so a settlement
	// transaction can never interleave with a trade transaction either.
	Mu *sync.Mutex // shared with trading.Service; self-allocated when nil

	muOnce      sync.Once
	cancelTimer func()
}

func (s *Service) lock() *sync.Mutex {
	s.muOnce.Do(func() {
		if s.Mu == nil {
			s.Mu = &sync.Mutex{}
		}
	})
	return s.Mu
}

// Status is the operationally visible round state.
type Status struct {
	IsActive     bool          `json:"is_active"`
	TradeEnabled bool          `json:"trade_enabled"`
	Round        *domain.Round `json:"round"`
}

// StartRound opens a new trading round of the given duration. Fails if a
// round is already active anywhere in the system.
func (s *Service) StartRound(ctx context.Context, durationMinutes int) (*domain.Round, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	mu := s.lock()
	mu.Lock()
	defer mu.Unlock()

	now := s.Clock.Now()
	round := domain.Round{
		StartTime:    now,
		EndTime:      now.Add(time.Duration(durationMinutes) * time.Minute),
		IsActive:     true,
		TradeEnabled: true,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active domain.Round
		err := tx.Where("is_active = ?", true).First(&active).Error
		if err == nil {
			return ErrRoundAlreadyActive
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		var maxNumber int
		if err := tx.Model(&domain.Round{}).
			Select("COALESCE(MAX(round_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}
		round.RoundNumber = maxNumber + 1

		return tx.Create(&round).Error
	})
	if err != nil {
		return nil, err
	}

	s.scheduleSettlement(round)

	log.Info().
		Int("round_number", round.RoundNumber).
		Time("end_time", round.EndTime).
		Msg("Round started")

	if s.Hub != nil {
		s.Hub.Publish(realtime.EventRoundUpdate, map[string]interface{}{
			"event": "started",
			"round": round,
		})
	}
	return &round, nil
}

// EndRound settles the currently active round. Returns ErrNoActiveRound when
// nothing is active (the timer already fired, or no round was started).
func (s *Service) EndRound(ctx context.Context) (*domain.Round, []scoring.Metrics, error) {
	var active domain.Round
	if err := s.DB.WithContext(ctx).Where("is_active = ?", true).First(&active).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrNoActiveRound
		}
		return nil, nil, err
	}
	return s.Settle(ctx, active.RoundID)
}

// Settle ends one specific round at most once. The flip of the active flag
// is the claim: whichever caller (manual end or timer) flips it first runs
// the scoring pass; the loser observes the round already ended and returns
// the persisted metrics untouched. Metric writes and the flip commit in one
// transaction, so a persistence failure leaves the round active and
// settlement re-attemptable.
func (s *Service) Settle(ctx context.Context, roundID uuid.UUID) (*domain.Round, []scoring.Metrics, error) {
	mu := s.lock()
	mu.Lock()
	defer mu.Unlock()

	var round domain.Round
	var metrics []scoring.Metrics
	settled := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&domain.Round{}).
			Where("round_id = ? AND is_active = ?", roundID, true).
			Updates(map[string]interface{}{"is_active": false, "trade_enabled": false})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			// Already ended by the other racer.
			return nil
		}
		settled = true

		var err error
		metrics, err = scoring.Settle(tx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.DB.WithContext(ctx).Where("round_id = ?", roundID).First(&round).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrNoActiveRound
		}
		return nil, nil, err
	}

	if !settled {
		persisted, err := scoring.PersistedMetrics(s.DB.WithContext(ctx))
		if err != nil {
			return nil, nil, err
		}
		return &round, persisted, nil
	}

	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}

	log.Info().
		Int("round_number", round.RoundNumber).
		Int("users_scored", len(metrics)).
		Msg("Round settled")

	if s.Leaderboard != nil {
		if err := s.Leaderboard.Rebuild(ctx, metrics); err != nil {
			log.Error().Err(err).Msg("Leaderboard rebuild failed")
		}
	}
	if s.Hub != nil {
		s.Hub.Publish(realtime.EventRoundUpdate, map[string]interface{}{
			"event":   "ended",
			"round":   round,
			"metrics": metrics,
		})
	}
	return &round, metrics, nil
}

// Status returns the current round state for the status query.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	var active domain.Round
	err := s.DB.WithContext(ctx).Where("is_active = ?", true).First(&active).Error
	if err == gorm.ErrRecordNotFound {
		return &Status{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Status{IsActive: true, TradeEnabled: active.TradeEnabled, Round: &active}, nil
}

// Resume re-arms the settlement timer after a restart. A round whose end
// time already passed is settled immediately.
func (s *Service) Resume(ctx context.Context) error {
	var active domain.Round
	err := s.DB.WithContext(ctx).Where("is_active = ?", true).First(&active).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if !active.EndTime.After(s.Clock.Now()) {
		_, _, err := s.Settle(ctx, active.RoundID)
		return err
	}

	// cancelTimer is only touched under the lock.
	mu := s.lock()
	mu.Lock()
	s.scheduleSettlement(active)
	mu.Unlock()
	return nil
}

func (s *Service) scheduleSettlement(round domain.Round) {
	roundID := round.RoundID
	s.cancelTimer = s.Clock.ScheduleAt(round.EndTime, func() {
		if _, _, err := s.Settle(context.Background(), roundID); err != nil {
			log.Error().Err(err).
				Int("round_number", round.RoundNumber).
				Msg("Automatic settlement failed")
		}
	})
}
