package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository/postgres"
)

func TestAvailabilityRepository_ListRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAvailabilityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "listing_id", "date", "status", "booking_id", "reason"}).
			AddRow(1, 5, "2026-09-10", "tentative", 7, "pending booking").
			AddRow(2, 5, "2026-09-11", "booked", 8, "confirmed booking")

		mock.ExpectQuery("SELECT (.+) FROM availability_entries").
			WithArgs(int64(5), "2026-09-10", "2026-09-14").
			WillReturnRows(rows)

		entries, err := repo.ListRange(ctx, 5, "2026-09-10", "2026-09-14")
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, domain.AvailabilityStatusTentative, entries[0].Status)
		assert.Equal(t, domain.AvailabilityStatusBooked, entries[1].Status)
	})

	t.Run("EmptyRangeMeansFree", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM availability_entries").
			WithArgs(int64(5), "2026-09-10", "2026-09-14").
			WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "date", "status", "booking_id", "reason"}))

		entries, err := repo.ListRange(ctx, 5, "2026-09-10", "2026-09-14")
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestAvailabilityRepository_HoldTentative(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAvailabilityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO availability_entries").
			WithArgs(int64(5), "2026-09-10", domain.AvailabilityStatusTentative, int64(7), "pending booking").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO availability_entries").
			WithArgs(int64(5), "2026-09-11", domain.AvailabilityStatusTentative, int64(7), "pending booking").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		err := repo.HoldTentative(ctx, 5, []string{"2026-09-10", "2026-09-11"}, 7)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UniqueViolationBecomesConflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO availability_entries").
			WithArgs(int64(5), "2026-09-10", domain.AvailabilityStatusTentative, int64(7), "pending booking").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO availability_entries").
			WithArgs(int64(5), "2026-09-11", domain.AvailabilityStatusTentative, int64(7), "pending booking").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.HoldTentative(ctx, 5, []string{"2026-09-10", "2026-09-11"}, 7)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Contains(t, err.Error(), "2026-09-11")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAvailabilityRepository_PromoteAndRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAvailabilityRepository(db)
	ctx := context.Background()

	t.Run("PromoteToBooked", func(t *testing.T) {
		mock.ExpectExec("UPDATE availability_entries SET status").
			WithArgs(domain.AvailabilityStatusBooked, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 4))

		assert.NoError(t, repo.PromoteToBooked(ctx, 7))
	})

	t.Run("Release", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM availability_entries WHERE booking_id").
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 4))

		assert.NoError(t, repo.Release(ctx, 7))
	})

	t.Run("ReleaseExpired", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM availability_entries a").
			WillReturnResult(sqlmock.NewResult(0, 3))

		freed, err := repo.ReleaseExpired(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), freed)
	})
}
