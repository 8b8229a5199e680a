package handler

import (
	"net/http"
	"strconv"

	"room-booking-backend/internal/middleware"
	"room-booking-backend/internal/service"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	IsStaff  bool   `json:"is_staff"`
	Phone    string `json:"phone"`
}

type updateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	IsStaff  *bool  `json:"is_staff"`
	Phone    string `json:"phone"`
}

// ListUsers returns every account (staff only)
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	users, err := h.userService.GetAllUsers(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser returns a single account with profile (staff only)
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	actor, _ := middleware.GetActor(c)
	user, err := h.userService.GetUser(actor, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// CreateUser adds an account (staff only)
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	actor, _ := middleware.GetActor(c)
	user, err := h.userService.CreateUser(actor, service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsStaff:  req.IsStaff,
		Phone:    req.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "User added successfully",
		"user":    user,
	})
}

// UpdateUser edits an account (staff only)
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	actor, _ := middleware.GetActor(c)
	user, err := h.userService.UpdateUser(actor, uint(id), service.UpdateUserInput{
		Email:    req.Email,
		Password: req.Password,
		IsStaff:  req.IsStaff,
		Phone:    req.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser removes an account (staff only, staff accounts refused)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	actor, _ := middleware.GetActor(c)
	if err := h.userService.DeleteUser(actor, uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.MessageResponse(c, "User deleted successfully")
}
