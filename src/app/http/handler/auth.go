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

// AuthHandler handles registration and login.
type AuthHandler struct {
	auth *usecase.AuthService
	log  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Register creates an account.
// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	req, ok := middleware.Payload[dto.RegisterRequest](c)
	if !ok {
		response.InternalError(c, requestID)
		return
	}

	if _, err := h.auth.Register(storageContext(c), req.Username, req.Password); err != nil {
		if domain.IsConflict(err) {
			c.JSON(http.StatusConflict, dto.StatusResponse{Message: "username already taken"})
			return
		}
		h.fail(c, err, requestID)
		return
	}

	c.JSON(http.StatusCreated, dto.StatusResponse{Success: true})
}

// Login exchanges credentials for a bearer token.
// Bad credentials answer 200 with success:false.
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	req, ok := middleware.Payload[dto.LoginRequest](c)
	if !ok {
		response.InternalError(c, requestID)
		return
	}

	result, err := h.auth.Login(storageContext(c), req.Username, req.Password)
	if err != nil {
		if domain.IsUnauthorized(err) {
			c.JSON(http.StatusOK, dto.StatusResponse{Message: "invalid credentials"})
			return
		}
		h.fail(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success:   true,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
	})
}

func (h *AuthHandler) fail(c *gin.Context, err error, requestID string) {
	if !domain.IsValidationError(err) {
		logger.WithRequestID(h.log, requestID).Error("auth request failed", "error", err)
	}
	response.FromDomainError(c, err, requestID)
}
