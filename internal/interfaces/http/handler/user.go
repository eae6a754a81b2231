package handler

import (
	"github.com/gin-gonic/gin"

	userapp "github.com/split/backend/internal/application/user"
	"github.com/split/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user, friendship and auth key endpoints
type UserHandler struct {
	BaseHandler
	service *userapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *userapp.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.GetByPhoneNumber)
		users.GET("/:id", h.GetByID)
		users.DELETE("/:id", h.Remove)

		users.POST("/:id/friendships", h.CreateFriendship)
		users.DELETE("/:id/friendships/:friendID", h.RemoveFriendship)
		users.GET("/:id/friends", h.ListFriends)
		users.GET("/:id/related-users", h.ListRelatedUsers)

		users.POST("/:id/auth-keys", h.RegisterAuthKey)
		users.GET("/:id/auth-keys", h.ListAuthKeys)
		users.PUT("/:id/auth-keys/sign-count", h.IncreaseSignCount)
	}
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req userapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByPhoneNumber handles GET /users?phone=...
func (h *UserHandler) GetByPhoneNumber(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		h.BadRequest(c, "phone query parameter is required")
		return
	}

	resp, err := h.service.GetByPhoneNumber(c.Request.Context(), phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Remove handles DELETE /users/:id
func (h *UserHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateFriendship handles POST /users/:id/friendships
func (h *UserHandler) CreateFriendship(c *gin.Context) {
	var req userapp.CreateFriendshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.service.CreateFriendship(c.Request.Context(), c.Param("id"), req.FriendID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RemoveFriendship handles DELETE /users/:id/friendships/:friendID
func (h *UserHandler) RemoveFriendship(c *gin.Context) {
	if err := h.service.RemoveFriendship(c.Request.Context(), c.Param("id"), c.Param("friendID")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListFriends handles GET /users/:id/friends
func (h *UserHandler) ListFriends(c *gin.Context) {
	friends := make([]userapp.UserResponse, 0)
	for friend, err := range h.service.GetFriends(c.Request.Context(), c.Param("id")) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		friends = append(friends, friend)
	}
	h.Success(c, friends)
}

// ListRelatedUsers handles GET /users/:id/related-users
func (h *UserHandler) ListRelatedUsers(c *gin.Context) {
	related := make([]userapp.UserResponse, 0)
	for u, err := range h.service.GetRelatedUsers(c.Request.Context(), c.Param("id")) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		related = append(related, u)
	}
	h.Success(c, related)
}

// RegisterAuthKey handles POST /users/:id/auth-keys
func (h *UserHandler) RegisterAuthKey(c *gin.Context) {
	var req userapp.RegisterAuthKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.service.RegisterAuthKey(c.Request.Context(), c.Param("id"), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAuthKeys handles GET /users/:id/auth-keys
func (h *UserHandler) ListAuthKeys(c *gin.Context) {
	keys, err := h.service.ListAuthKeys(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, keys)
}

// IncreaseSignCount handles PUT /users/:id/auth-keys/sign-count
func (h *UserHandler) IncreaseSignCount(c *gin.Context) {
	var req userapp.IncreaseSignCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.service.IncreaseSignCount(c.Request.Context(), c.Param("id"), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
