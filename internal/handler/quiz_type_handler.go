package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/finprep/certquiz-backend/internal/response"
	"github.com/finprep/certquiz-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// QuizTypeHandler serves the quiz type catalog.
type QuizTypeHandler struct {
	quizTypeService *service.QuizTypeService
	log             zerolog.Logger
}

// NewQuizTypeHandler creates a new QuizTypeHandler.
func NewQuizTypeHandler(quizTypeService *service.QuizTypeService, log zerolog.Logger) *QuizTypeHandler {
	return &QuizTypeHandler{
		quizTypeService: quizTypeService,
		log:             log.With().Str("component", "quiz_type_handler").Logger(),
	}
}

// List handles GET /quiz-types.
func (h *QuizTypeHandler) List(c *gin.Context) {
	types, err := h.quizTypeService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list quiz types failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, types)
}

// Get handles GET /quiz-types/:id.
func (h *QuizTypeHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	qt, err := h.quizTypeService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrQuizTypeNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Int("quiz_type_id", id).Msg("get quiz type failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, qt)
}
