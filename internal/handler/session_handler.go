package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/finprep/certquiz-backend/internal/generator"
	"github.com/finprep/certquiz-backend/internal/middleware"
	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/finprep/certquiz-backend/internal/response"
	"github.com/finprep/certquiz-backend/internal/service"
	"github.com/finprep/certquiz-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionHandler exposes the quiz session lifecycle over HTTP.
type SessionHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "session_handler").Logger(),
	}
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	start, err := h.sessionService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		h.fail(c, err, "create session failed")
		return
	}

	response.Success(c, http.StatusCreated, start)
}

// Block handles GET /sessions/:id/block.
func (h *SessionHandler) Block(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, ok := sessionID(c)
	if !ok {
		return
	}

	block, err := h.sessionService.GetBlock(c.Request.Context(), id, claims.UserID)
	if err != nil {
		h.fail(c, err, "get block failed")
		return
	}

	if block == nil {
		block = []model.QuestionView{}
	}
	response.Success(c, http.StatusOK, gin.H{"questions": block})
}

// SubmitAnswer handles POST /sessions/:id/answers.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.sessionService.SubmitAnswer(c.Request.Context(), id, claims.UserID, req)
	if err != nil {
		h.fail(c, err, "submit answer failed")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Finish handles POST /sessions/:id/finish.
func (h *SessionHandler) Finish(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.sessionService.Finish(c.Request.Context(), id, claims.UserID)
	if err != nil {
		h.fail(c, err, "finish session failed")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Results handles GET /sessions/:id/results.
func (h *SessionHandler) Results(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, ok := sessionID(c)
	if !ok {
		return
	}

	report, err := h.sessionService.Results(c.Request.Context(), id, claims.UserID)
	if err != nil {
		h.fail(c, err, "get results failed")
		return
	}

	response.Success(c, http.StatusOK, report)
}

// sessionID parses the :id path param, writing the error response itself.
func sessionID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// fail maps session engine errors to API error codes.
func (h *SessionHandler) fail(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrQuizTypeNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotSessionOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrNotEnoughQuestions):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNotEnoughQuestions)
	case errors.Is(err, service.ErrSessionClosed):
		response.Fail(c, http.StatusConflict, response.ErrSessionClosed)
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyCompleted)
	case errors.Is(err, service.ErrSessionNotCompleted):
		response.Fail(c, http.StatusConflict, response.ErrSessionNotCompleted)
	case errors.Is(err, service.ErrAnswerAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAnswerAlreadyExists)
	case errors.Is(err, service.ErrQuestionNotInSession):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotInSession)
	case errors.Is(err, service.ErrInvalidAnswer):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidAnswer)
	case errors.Is(err, generator.ErrUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrGeneratorUnavailable)
	default:
		h.log.Error().Err(err).Msg(logMsg)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
