package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"puser-service/internal/usecase/user"
	apperrors "puser-service/pkg/errors"
	"puser-service/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID       int64  `json:"id"`
	UserName string `json:"user_name"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.uc.ListUsers(ctx)
	if err != nil {
		logger.WithContext(ctx, h.log).Error("Gin ListUsers failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = UserResponse{
			ID:       u.ID,
			UserName: u.UserName,
		}
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Users: users,
		Count: len(users),
	})
}

// handleError converts usecase errors to appropriate HTTP responses.
// Driver details stay in the logs.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var (
		storageErr *apperrors.StorageError
		mappingErr *apperrors.MappingError
	)

	switch {
	case errors.As(err, &storageErr):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "storage_unavailable",
			Message: "The user store is currently unavailable",
		})
	case errors.As(err, &mappingErr):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "mapping_error",
			Message: "A stored user record could not be read",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
