package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cliniq/models"
)

func TestQueryRepositoryCreateFillsGeneratedFields(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewQueryRepository(mockDB)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO queries`).
		WithArgs("Dose d'adrénaline ?", "**Synthèse Clinique :** réponse.", int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))

	record := &models.QueryRecord{
		QueryText:    "Dose d'adrénaline ?",
		ResponseText: "**Synthèse Clinique :** réponse.",
		UserID:       42,
	}
	require.NoError(t, repo.Create(context.Background(), record))

	assert.Equal(t, int64(11), record.ID)
	assert.Equal(t, now, record.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRepositoryCreateError(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewQueryRepository(mockDB)

	mock.ExpectQuery(`INSERT INTO queries`).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.QueryRecord{QueryText: "q", ResponseText: "r", UserID: 1})
	assert.Error(t, err)
}

func TestQueryRepositoryListByUser(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewQueryRepository(mockDB)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "query_text", "response_text", "user_id", "created_at"}).
		AddRow(2, "q2", "r2", 7, now).
		AddRow(1, "q1", "r1", 7, now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT id, query_text, response_text, user_id, created_at`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	records, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, "q1", records[1].QueryText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRepositoryListByUserEmpty(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewQueryRepository(mockDB)

	mock.ExpectQuery(`SELECT id, query_text, response_text, user_id, created_at`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "query_text", "response_text", "user_id", "created_at"}))

	records, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, records)
}
