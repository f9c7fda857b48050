package performance

import (
	"context"
	"time"
)

type PerformanceService interface {
	ComputeScore(ctx context.Context, employeeID string, start, end time.Time) (ScoreRecord, error)
	ComputeLeaderboard(ctx context.Context, start, end time.Time) (Leaderboard, error)
}
