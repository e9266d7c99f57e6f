package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/models"
	"github.com/rs/zerolog"
)

// Answerer answers one question about the loaded CSV data
type Answerer interface {
	Answer(ctx context.Context, question string) (models.AskResponse, error)
}

type Handler struct {
	answerer Answerer
	logger   *zerolog.Logger
}

func NewHandler(answerer Answerer, logger *zerolog.Logger) *Handler {
	return &Handler{
		answerer: answerer,
		logger:   logger,
	}
}

var ErrEmptyQuestion = errors.New("question must not be empty")

// POST /api/v1/ask
// Body: AskRequest
// Returns: AskResponse
func (h *Handler) Ask(req *restful.Request, resp *restful.Response) {
	var askRequest models.AskRequest
	if err := req.ReadEntity(&askRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	question := strings.TrimSpace(askRequest.Question)
	if question == "" {
		middleware.HandleError(resp, ErrEmptyQuestion, http.StatusBadRequest)
		return
	}

	answer, err := h.answerer.Answer(req.Request.Context(), question)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", answer.RequestID).Msg("Failed to answer question")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, answer)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
