package repository

import (
	"context"

	"gorm.io/gorm"
)

// RankingRow is one leaderboard entry before positions are assigned.
type RankingRow struct {
	UserID              uint   `json:"user_id"`
	UserName            string `json:"user_name"`
	Email               string `json:"email"`
	TotalScore          int64  `json:"total_score"`
	ActivitiesCompleted int64  `json:"activities_completed"`
}

// RankingRepository aggregates grade scores into leaderboards.
type RankingRepository interface {
	Global(ctx context.Context, limit int) ([]RankingRow, error)
	ByCourse(ctx context.Context, courseID uint, limit int) ([]RankingRow, error)
}

// NewRankingRepository constructs a ranking repository.
func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

type rankingRepository struct {
	db *gorm.DB
}

func (r *rankingRepository) Global(ctx context.Context, limit int) ([]RankingRow, error) {
	var rows []RankingRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.name AS user_name, u.email AS email,
		       COALESCE(SUM(g.score), 0) AS total_score,
		       COUNT(g.id) AS activities_completed
		FROM users u
		LEFT JOIN grades g ON g.student_id = u.id
		WHERE u.role = ?
		GROUP BY u.id, u.name, u.email
		ORDER BY COALESCE(SUM(g.score), 0) DESC
		LIMIT ?`, "student", limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *rankingRepository) ByCourse(ctx context.Context, courseID uint, limit int) ([]RankingRow, error) {
	var rows []RankingRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.name AS user_name, u.email AS email,
		       COALESCE(SUM(g.score), 0) AS total_score,
		       COUNT(g.id) AS activities_completed
		FROM users u
		JOIN grades g ON g.student_id = u.id AND g.course_id = ?
		GROUP BY u.id, u.name, u.email
		ORDER BY COALESCE(SUM(g.score), 0) DESC
		LIMIT ?`, courseID, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
