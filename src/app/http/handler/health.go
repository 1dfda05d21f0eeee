// Package handler contains HTTP handlers for the API.
// Handlers read the payload bound by the validation middleware, call a use
// case and convert the result to an HTTP response.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"piadas/src/core/usecase"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	healthService *usecase.HealthService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthService *usecase.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports liveness only.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// DetailedHealth probes the database and cache.
// GET /health/detailed
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	status := h.healthService.Check(c.Request.Context())
	c.JSON(http.StatusOK, status)
}

// storageContext keeps request values but outlives a client disconnect,
// so a write that reached the store is not abandoned halfway.
func storageContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
