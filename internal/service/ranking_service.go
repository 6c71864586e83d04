package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aulavirtual/aula-go-api/internal/dto"
	"github.com/aulavirtual/aula-go-api/internal/repository"
)

const defaultRankingLimit = 50

// RankingService serves cached leaderboards over accumulated grades.
type RankingService interface {
	Global(ctx context.Context, limit int) ([]dto.RankingEntry, error)
	ByCourse(ctx context.Context, courseID uint, limit int) ([]dto.RankingEntry, error)
	// Invalidate drops cached leaderboards touched by a new grade.
	Invalidate(ctx context.Context, courseID uint)
}

type rankingService struct {
	rankings repository.RankingRepository
	cache    *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewRankingService constructs the ranking service. cache may be nil; every
// read then goes to the database.
func NewRankingService(rankings repository.RankingRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) RankingService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &rankingService{
		rankings: rankings,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.With().Str("component", "ranking_service").Logger(),
	}
}

func (s *rankingService) Global(ctx context.Context, limit int) ([]dto.RankingEntry, error) {
	limit = clampLimit(limit)
	key := fmt.Sprintf("rankings:global:v1:%d", limit)
	if entries, ok := s.fromCache(ctx, key); ok {
		return entries, nil
	}

	rows, err := s.rankings.Global(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := assignPositions(rows)
	s.toCache(ctx, key, entries)
	return entries, nil
}

func (s *rankingService) ByCourse(ctx context.Context, courseID uint, limit int) ([]dto.RankingEntry, error) {
	limit = clampLimit(limit)
	key := fmt.Sprintf("rankings:course:v1:%d:%d", courseID, limit)
	if entries, ok := s.fromCache(ctx, key); ok {
		return entries, nil
	}

	rows, err := s.rankings.ByCourse(ctx, courseID, limit)
	if err != nil {
		return nil, err
	}
	entries := assignPositions(rows)
	s.toCache(ctx, key, entries)
	return entries, nil
}

func (s *rankingService) Invalidate(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}
	patterns := []string{"rankings:global:v1:*", fmt.Sprintf("rankings:course:v1:%d:*", courseID)}
	for _, pattern := range patterns {
		iter := s.cache.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
				s.logger.Warn().Err(err).Str("key", iter.Val()).Msg("failed to drop cached ranking")
			}
		}
		if err := iter.Err(); err != nil {
			s.logger.Warn().Err(err).Str("pattern", pattern).Msg("ranking cache scan failed")
		}
	}
}

func (s *rankingService) fromCache(ctx context.Context, key string) ([]dto.RankingEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil || cached == "" {
		return nil, false
	}
	var entries []dto.RankingEntry
	if err := json.Unmarshal([]byte(cached), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *rankingService) toCache(ctx context.Context, key string, entries []dto.RankingEntry) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache ranking")
	}
}

// assignPositions numbers rows 1-based in the order the query returned
// them, which is already descending by total score.
func assignPositions(rows []repository.RankingRow) []dto.RankingEntry {
	entries := make([]dto.RankingEntry, 0, len(rows))
	for index, row := range rows {
		entries = append(entries, dto.RankingEntry{
			Position:            index + 1,
			UserID:              row.UserID,
			UserName:            row.UserName,
			Email:               row.Email,
			TotalScore:          row.TotalScore,
			ActivitiesCompleted: row.ActivitiesCompleted,
		})
	}
	return entries
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > defaultRankingLimit {
		return defaultRankingLimit
	}
	return limit
}
