package services

import (
	"context"
	"fmt"
	"log"

	"cliniq/models"
)

// QueryStore persists question/answer records. Append-only; reads come back
// newest first.
type QueryStore interface {
	Create(ctx context.Context, record *models.QueryRecord) error
	ListByUser(ctx context.Context, userID int64) ([]models.QueryRecord, error)
}

// QueryService runs the pipeline for an authenticated practitioner and
// persists the resulting record. The record is written exactly once, after
// generation succeeds; a failed pipeline run writes nothing.
type QueryService struct {
	pipeline Searcher
	queries  QueryStore
}

func NewQueryService(pipeline Searcher, queries QueryStore) *QueryService {
	return &QueryService{pipeline: pipeline, queries: queries}
}

// CreateMedicalQuery answers queryText for user and commits the history entry.
func (s *QueryService) CreateMedicalQuery(ctx context.Context, user *models.User, queryText string) (*models.QueryResponse, error) {
	log.Printf("SERVICE: medical query from %s", user.Username)

	result, err := s.pipeline.Search(ctx, queryText)
	if err != nil {
		return nil, err
	}

	record := &models.QueryRecord{
		QueryText:    queryText,
		ResponseText: result.AnswerText,
		UserID:       user.ID,
	}
	if err := s.queries.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist query record: %w", err)
	}

	return &models.QueryResponse{
		ID:           record.ID,
		QueryText:    record.QueryText,
		ResponseText: record.ResponseText,
		Sources:      result.Sources,
		CreatedAt:    record.CreatedAt,
	}, nil
}

// GetUserQueryHistory lists the user's records in reverse-chronological order.
func (s *QueryService) GetUserQueryHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	records, err := s.queries.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load query history: %w", err)
	}

	entries := make([]models.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, models.HistoryEntry{
			ID:           r.ID,
			QueryText:    r.QueryText,
			ResponseText: r.ResponseText,
			CreatedAt:    r.CreatedAt,
		})
	}
	return entries, nil
}
