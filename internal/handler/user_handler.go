package handler

import (
	"net/http"

	"github.com/finprep/certquiz-backend/internal/middleware"
	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/finprep/certquiz-backend/internal/response"
	"github.com/finprep/certquiz-backend/internal/service"
	"github.com/finprep/certquiz-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// historyQuery is the pagination query for the session history listing.
type historyQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// UserHandler serves per-user read endpoints: session history and progress.
type UserHandler struct {
	sessionService  *service.SessionService
	progressService *service.ProgressService
	log             zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(sessionService *service.SessionService, progressService *service.ProgressService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		sessionService:  sessionService,
		progressService: progressService,
		log:             log.With().Str("component", "user_handler").Logger(),
	}
}

// History handles GET /users/me/history.
func (h *UserHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)

	q := historyQuery{Page: 1, Limit: 10}
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}

	entries, total, err := h.sessionService.History(c.Request.Context(), claims.UserID, q.Page, q.Limit)
	if err != nil {
		h.log.Error().Err(err).Int("user_id", claims.UserID).Msg("list history failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if entries == nil {
		entries = []model.HistoryEntry{}
	}

	totalPages := (total + q.Limit - 1) / q.Limit
	response.SuccessWithPagination(c, http.StatusOK, entries, &response.Pagination{
		Page:       q.Page,
		PerPage:    q.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Progress handles GET /users/me/progress.
func (h *UserHandler) Progress(c *gin.Context) {
	claims := middleware.GetClaims(c)

	entries, err := h.progressService.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.log.Error().Err(err).Int("user_id", claims.UserID).Msg("list progress failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if entries == nil {
		entries = []model.ProgressEntry{}
	}
	response.Success(c, http.StatusOK, entries)
}
