package leaderboard

import (
	"context"
	"testing"

	"greenvest-backend/internal/domain"
	"greenvest-backend/internal/scoring"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLeaderboardTest(t *testing.T) (*Service, *miniredis.Miniredis, *gorm.DB) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	return &Service{DB: db, Rdb: rdb}, mr, db
}

func seedScoredUser(t *testing.T, db *gorm.DB, name string, score float64) domain.User {
	user := domain.User{
		Fullname:     name,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FinalScore:   score,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestRebuildAndTop(t *testing.T) {
	svc, _, db := setupLeaderboardTest(t)
	alice := seedScoredUser(t, db, "Alice", 92.5)
	bob := seedScoredUser(t, db, "Bob", 71.0)
	carol := seedScoredUser(t, db, "Carol", 88.0)

	metrics := []scoring.Metrics{
		{UserID: alice.UserID, FinalScore: 92.5},
		{UserID: bob.UserID, FinalScore: 71.0},
		{UserID: carol.UserID, FinalScore: 88.0},
	}
	require.NoError(t, svc.Rebuild(context.Background(), metrics))

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Alice", entries[0].Fullname)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 92.5, entries[0].FinalScore)
	assert.Equal(t, "Carol", entries[1].Fullname)
	assert.Equal(t, "Bob", entries[2].Fullname)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestTop_LimitApplies(t *testing.T) {
	svc, _, db := setupLeaderboardTest(t)
	var metrics []scoring.Metrics
	for _, score := range []float64{10, 20, 30, 40, 50} {
		u := seedScoredUser(t, db, "Player", score)
		metrics = append(metrics, scoring.Metrics{UserID: u.UserID, FinalScore: score})
	}
	require.NoError(t, svc.Rebuild(context.Background(), metrics))

	entries, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 50.0, entries[0].FinalScore)
	assert.Equal(t, 40.0, entries[1].FinalScore)
}

func TestRebuild_ReplacesPreviousRanking(t *testing.T) {
	svc, _, db := setupLeaderboardTest(t)
	alice := seedScoredUser(t, db, "Alice", 92.5)
	bob := seedScoredUser(t, db, "Bob", 71.0)

	require.NoError(t, svc.Rebuild(context.Background(), []scoring.Metrics{
		{UserID: alice.UserID, FinalScore: 92.5},
		{UserID: bob.UserID, FinalScore: 71.0},
	}))
	// Next settlement flips the order.
	require.NoError(t, svc.Rebuild(context.Background(), []scoring.Metrics{
		{UserID: alice.UserID, FinalScore: 40.0},
		{UserID: bob.UserID, FinalScore: 95.0},
	}))

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bob", entries[0].Fullname)
	assert.Equal(t, 95.0, entries[0].FinalScore)
}

func TestTop_FallsBackToDBWhenCacheEmpty(t *testing.T) {
	svc, _, db := setupLeaderboardTest(t)
	seedScoredUser(t, db, "Alice", 92.5)
	seedScoredUser(t, db, "Bob", 71.0)

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice", entries[0].Fullname)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestTop_FallsBackToDBWhenRedisDown(t *testing.T) {
	svc, mr, db := setupLeaderboardTest(t)
	seedScoredUser(t, db, "Alice", 92.5)
	mr.Close()

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].Fullname)
}

func TestRebuild_EmptyMetricsClearsCache(t *testing.T) {
	svc, mr, db := setupLeaderboardTest(t)
	alice := seedScoredUser(t, db, "Alice", 92.5)

	require.NoError(t, svc.Rebuild(context.Background(), []scoring.Metrics{
		{UserID: alice.UserID, FinalScore: 92.5},
	}))
	require.NoError(t, svc.Rebuild(context.Background(), nil))

	assert.False(t, mr.Exists("leaderboard:final_score"))
}
