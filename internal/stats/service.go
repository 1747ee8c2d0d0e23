package stats

import (
	"context"

	"backend-hoursledger/internal/db"
)

// Summary is derived per request by summing the caller's two record
// collections. Nothing here is stored or cached.
type Summary struct {
	TotalSeminarHours  float64 `json:"total_seminar_hours"`
	TotalActivityHours float64 `json:"total_activity_hours"`
	SeminarCount       int64   `json:"seminar_count"`
	ActivityCount      int64   `json:"activity_count"`
	TotalHours         float64 `json:"total_hours"`
	TotalEntries       int64   `json:"total_entries"`
}

type Service struct {
	db db.Querier
}

func NewService(querier db.Querier) *Service {
	return &Service{db: querier}
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	var out Summary

	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(hours_attended), 0), COUNT(*)
		FROM seminar_hours WHERE user_id = $1
	`, userID)
	if err := row.Scan(&out.TotalSeminarHours, &out.SeminarCount); err != nil {
		return Summary{}, err
	}

	row = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(hours_attended), 0), COUNT(*)
		FROM activity_hours WHERE user_id = $1
	`, userID)
	if err := row.Scan(&out.TotalActivityHours, &out.ActivityCount); err != nil {
		return Summary{}, err
	}

	out.TotalHours = out.TotalSeminarHours + out.TotalActivityHours
	out.TotalEntries = out.SeminarCount + out.ActivityCount
	return out, nil
}
