package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

var errSummary = errors.New("summary failed")

func TestSummary(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM seminar_hours`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"sum", "count"}).AddRow(7.5, int64(3)))
	mock.ExpectQuery(`FROM activity_hours`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"sum", "count"}).AddRow(4.0, int64(2)))

	svc := NewService(mock)
	summary, err := svc.Summary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalSeminarHours != 7.5 || summary.SeminarCount != 3 {
		t.Fatalf("unexpected seminar totals %+v", summary)
	}
	if summary.TotalActivityHours != 4.0 || summary.ActivityCount != 2 {
		t.Fatalf("unexpected activity totals %+v", summary)
	}
	if summary.TotalHours != 11.5 || summary.TotalEntries != 5 {
		t.Fatalf("unexpected combined totals %+v", summary)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSummaryEmptyCollections(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM seminar_hours`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"sum", "count"}).AddRow(0.0, int64(0)))
	mock.ExpectQuery(`FROM activity_hours`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"sum", "count"}).AddRow(0.0, int64(0)))

	svc := NewService(mock)
	summary, err := svc.Summary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalHours != 0 || summary.TotalEntries != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}

func TestSummaryQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM seminar_hours`).
		WithArgs("user-1").
		WillReturnError(errors.New("boom"))

	svc := NewService(mock)
	if _, err := svc.Summary(context.Background(), "user-1"); err == nil {
		t.Fatalf("expected error")
	}
}
