package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backoffice-service/internal/services"
	"backoffice-service/pkg/common"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required"`
	LeaderId *int   `json:"leader_id"`
	Phone    string `json:"phone"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	user, err := h.Users.CreateUser(services.CreateUserDTO{
		Username: req.Username,
		Role:     req.Role,
		LeaderId: req.LeaderId,
		Phone:    req.Phone,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(user, "User created"))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id", nil, http.StatusBadRequest))
		return
	}

	user, err := h.Users.GetUser(id)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(user, "User fetched"))
}
