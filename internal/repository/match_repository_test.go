package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshortlist/shortlist-api/internal/models"
)

func sampleMatches() []models.MatchRecord {
	return []models.MatchRecord{
		{ID: "a", EventDate: "2026-08-29", Person1Code: "M2", Person2Code: "W1", MatchType: models.MatchTypeDouble1, Person1Consent: true, Person2Consent: true},
		{ID: "b", EventDate: "2026-08-29", Person1Code: "M1", Person2Code: "W2", MatchType: models.MatchTypeMutual2nd, Person1Consent: true, Person2Consent: false},
	}
}

func TestMatchRepositorySaveRun(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatchRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO match_runs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO matches").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO matches").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	saved, err := repo.SaveRun(context.Background(), "2026-08-29", sampleMatches())
	require.NoError(t, err)
	assert.True(t, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepositorySaveRunAlreadyRecorded(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatchRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO match_runs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// A marker conflict means another run won; nothing else is written.
	saved, err := repo.SaveRun(context.Background(), "2026-08-29", sampleMatches())
	require.NoError(t, err)
	assert.False(t, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepositorySaveRunRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatchRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO match_runs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO matches").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	_, err := repo.SaveRun(context.Background(), "2026-08-29", sampleMatches())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepositorySaveRunEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatchRepository(db)

	// A run with no matches still records the marker.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO match_runs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	saved, err := repo.SaveRun(context.Background(), "2026-08-29", nil)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepositoryRunExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatchRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("2026-08-29").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.RunExists(context.Background(), "2026-08-29")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepositoryGetByMember(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatchRepository(db)

	rows := sqlmock.NewRows([]string{"id", "event_date", "person1_code", "person2_code", "match_type", "person1_consent", "person2_consent", "created_at"}).
		AddRow("a", "2026-08-29", "M2", "W1", "double1", true, false, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM matches WHERE event_date").
		WithArgs("2026-08-29", "W1").
		WillReturnRows(rows)

	match, err := repo.GetByMember(context.Background(), "2026-08-29", "W1")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "M2", match.Person1Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepositoryGetByMemberUnmatched(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatchRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM matches WHERE event_date").
		WithArgs("2026-08-29", "M7").
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_date", "person1_code", "person2_code", "match_type", "person1_consent", "person2_consent", "created_at"}))

	match, err := repo.GetByMember(context.Background(), "2026-08-29", "M7")
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.NoError(t, mock.ExpectationsWereMet())
}
