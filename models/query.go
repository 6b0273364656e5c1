package models

import "time"

// QueryRecord is a persisted question/answer pair. Records are created once
// after generation succeeds, never updated, and cascade-deleted with their
// owning user.
type QueryRecord struct {
	ID           int64
	QueryText    string
	ResponseText string
	UserID       int64
	CreatedAt    time.Time
}
