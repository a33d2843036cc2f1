// Package leaderboard caches the cohort ranking in a Redis sorted set so the
// leaderboard read path stays off the database between settlements.
package leaderboard

import (
	"context"

	"greenvest-backend/internal/domain"
	"greenvest-backend/internal/scoring"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const leaderboardKey = "leaderboard:final_score"

type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Entry is one leaderboard row.
type Entry struct {
	UserID     uuid.UUID `json:"user_id"`
	Fullname   string    `json:"fullname"`
	FinalScore float64   `json:"final_score"`
	Rank       int       `json:"rank"`
}

// Rebuild replaces the cached ranking with fresh settlement metrics.
func (s *Service) Rebuild(ctx context.Context, metrics []scoring.Metrics) error {
	if s.Rdb == nil {
		return nil
	}
	members := make([]redis.Z, len(metrics))
	for i, m := range metrics {
		members[i] = redis.Z{Score: m.FinalScore, Member: m.UserID.String()}
	}

	pipe := s.Rdb.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, leaderboardKey, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns the highest-scoring users. Reads the Redis cache first and
// falls back to the database when the cache is empty or unavailable.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.Rdb != nil {
		entries, err := s.topFromCache(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("Leaderboard cache read failed, falling back to DB")
		}
	}
	return s.topFromDB(ctx, limit)
}

func (s *Service) topFromCache(ctx context.Context, limit int) ([]Entry, error) {
	zs, err := s.Rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(zs))
	for _, z := range zs {
		id, err := uuid.Parse(z.Member.(string))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	var users []domain.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.UserID] = u.Fullname
	}

	entries := make([]Entry, len(zs))
	for i, z := range zs {
		id, _ := uuid.Parse(z.Member.(string))
		entries[i] = Entry{
			UserID:     id,
			Fullname:   names[id],
			FinalScore: z.Score,
			Rank:       i + 1,
		}
	}
	return entries, nil
}

func (s *Service) topFromDB(ctx context.Context, limit int) ([]Entry, error) {
	var users []domain.User
	err := s.DB.WithContext(ctx).
		Order("final_score DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(users))
	for i, u := range users {
		entries[i] = Entry{
			UserID:     u.UserID,
			Fullname:   u.Fullname,
			FinalScore: u.FinalScore,
			Rank:       i + 1,
		}
	}
	return entries, nil
}
