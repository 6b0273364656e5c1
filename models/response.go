package models

import "time"

// PipelineResult is the fixed output shape of the RAG pipeline: one answer
// string and one source descriptor per context chunk, in reranked order.
type PipelineResult struct {
	AnswerText string             `json:"answer_text"`
	Sources    []SourceDescriptor `json:"sources"`
}

// QueryResponse is returned by POST /chat/query after the record is persisted.
type QueryResponse struct {
	ID           int64              `json:"id"`
	QueryText    string             `json:"query_text"`
	ResponseText string             `json:"response_text"`
	Sources      []SourceDescriptor `json:"sources"`
	CreatedAt    time.Time          `json:"created_at"`
}

// HistoryEntry is one persisted question/answer pair in a user's history.
type HistoryEntry struct {
	ID           int64     `json:"id"`
	QueryText    string    `json:"query_text"`
	ResponseText string    `json:"response_text"`
	CreatedAt    time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	PublicID string `json:"public_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
