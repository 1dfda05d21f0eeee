package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"piadas/src/app/http/dto"
	"piadas/src/app/http/response"
	"piadas/src/app/middleware"
	"piadas/src/core/domain"
	"piadas/src/core/usecase"
	"piadas/src/infra/logger"
)

// CacheStatusHeader reports whether a search was served from the cache.
const CacheStatusHeader = "X-Cache"

// JokeHandler handles joke endpoints. Every route is behind BearerAuth.
type JokeHandler struct {
	jokes *usecase.JokeService
	log   *slog.Logger
}

// NewJokeHandler creates a new JokeHandler.
func NewJokeHandler(jokes *usecase.JokeService, log *slog.Logger) *JokeHandler {
	return &JokeHandler{jokes: jokes, log: log}
}

// Random returns one joke.
// GET /piadas
func (h *JokeHandler) Random(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	joke, err := h.jokes.Random(storageContext(c))
	if err != nil {
		if domain.IsEmpty(err) {
			h.log.Warn("no jokes stored", "request_id", requestID)
			response.NoData(c, "no jokes available", requestID)
			return
		}
		h.fail(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, dto.RandomJokeResponse{Piada: joke.Content})
}

// Add stores a joke sent by the authenticated user.
// POST /piadas
func (h *JokeHandler) Add(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	req, ok := middleware.Payload[dto.AddJokeRequest](c)
	if !ok {
		response.InternalError(c, requestID)
		return
	}

	joke, err := h.jokes.Add(storageContext(c), req.Content, req.Category)
	if err != nil {
		h.fail(c, err, requestID)
		return
	}

	userID, _ := middleware.GetUserID(c)
	h.log.Info("joke stored", "request_id", requestID, "joke_id", joke.ID, "user_id", userID)
	c.JSON(http.StatusCreated, dto.StatusResponse{Success: true})
}

// Search returns jokes matching the optional category and keyword.
// GET /piadas/busca
func (h *JokeHandler) Search(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	q, ok := middleware.Payload[dto.SearchJokesQuery](c)
	if !ok {
		response.InternalError(c, requestID)
		return
	}

	result, err := h.jokes.Search(storageContext(c), domain.NewSearchFilter(q.Category, q.Keyword))
	if err != nil {
		h.fail(c, err, requestID)
		return
	}

	if result.Cached {
		c.Header(CacheStatusHeader, "HIT")
	} else {
		c.Header(CacheStatusHeader, "MISS")
	}
	c.JSON(http.StatusOK, dto.SearchJokesResponse{Piadas: result.Jokes})
}

func (h *JokeHandler) fail(c *gin.Context, err error, requestID string) {
	if !domain.IsValidationError(err) {
		logger.WithRequestID(h.log, requestID).Error("joke request failed", "error", err)
	}
	response.FromDomainError(c, err, requestID)
}
