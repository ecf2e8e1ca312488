package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepositoryGetByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows([]string{"date", "title", "venue", "chat_link", "status", "current_round", "current_session", "created_at", "updated_at"}).
		AddRow("2026-08-29", "The Shortlist #12", "Gangnam", "https://chat.example", "active", 4, 2, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM events WHERE date").
		WithArgs("2026-08-29").
		WillReturnRows(rows)

	event, err := repo.GetByDate(context.Background(), "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, 4, event.CurrentRound)
	assert.Equal(t, 2, event.CurrentSession)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCompareAndSetRound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("UPDATE events").
		WithArgs(5, 3, sqlmock.AnyArg(), "2026-08-29", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	moved, err := repo.CompareAndSetRound(context.Background(), "2026-08-29", 4, 5, 3)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCompareAndSetRoundStale(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	// Another session already moved the counter; the guard matches no row.
	mock.ExpectExec("UPDATE events").
		WithArgs(5, 3, sqlmock.AnyArg(), "2026-08-29", 4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err := repo.CompareAndSetRound(context.Background(), "2026-08-29", 4, 5, 3)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
