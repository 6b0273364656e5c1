package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"cliniq/middleware"
	"cliniq/models"
)

// MedicalQueryService is the business surface behind the chat endpoints.
type MedicalQueryService interface {
	CreateMedicalQuery(ctx context.Context, user *models.User, queryText string) (*models.QueryResponse, error)
	GetUserQueryHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error)
}

// ChatController handles the RAG assistant endpoints. It depends on the
// query service to run the pipeline and manage history.
type ChatController struct {
	queries MedicalQueryService
}

func NewChatController(queries MedicalQueryService) *ChatController {
	return &ChatController{queries: queries}
}

// PostQuery is the handler for POST /chat/query. It runs the full pipeline
// for the authenticated caller and returns the persisted record. Stage
// failures surface as one opaque service error; there is no partial response.
func (cc *ChatController) PostQuery(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	response, err := cc.queries.CreateMedicalQuery(ctx.Request.Context(), user, req.QueryText)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate AI response"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetHistory is the handler for GET /chat/history.
func (cc *ChatController) GetHistory(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	entries, err := cc.queries.GetUserQueryHistory(ctx.Request.Context(), user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
