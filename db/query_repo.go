package db

import (
	"context"
	"database/sql"

	"cliniq/models"
)

// QueryRepository persists question/answer records. Records are append-only
// and removed only through the users cascade.
type QueryRepository struct {
	db *sql.DB
}

func NewQueryRepository(db *sql.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

// Create inserts the record and fills its generated id and timestamp.
func (r *QueryRepository) Create(ctx context.Context, record *models.QueryRecord) error {
	const q = `
INSERT INTO queries (query_text, response_text, user_id)
VALUES ($1, $2, $3)
RETURNING id, created_at;
`
	return r.db.QueryRowContext(ctx, q, record.QueryText, record.ResponseText, record.UserID).
		Scan(&record.ID, &record.CreatedAt)
}

// ListByUser returns the user's records, newest first.
func (r *QueryRepository) ListByUser(ctx context.Context, userID int64) ([]models.QueryRecord, error) {
	const q = `
SELECT id, query_text, response_text, user_id, created_at
FROM queries
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.QueryRecord
	for rows.Next() {
		var rec models.QueryRecord
		if err := rows.Scan(&rec.ID, &rec.QueryText, &rec.ResponseText, &rec.UserID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
