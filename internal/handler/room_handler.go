package handler

import (
	"net/http"
	"strconv"

	"room-booking-backend/internal/middleware"
	"room-booking-backend/internal/models"
	"room-booking-backend/internal/service"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

type roomRequest struct {
	RoomName   string  `json:"room_name" binding:"required"`
	Capacity   uint    `json:"capacity" binding:"required,gt=0"`
	Location   string  `json:"location" binding:"required"`
	Facilities string  `json:"facilities"`
	RoomType   string  `json:"room_type" binding:"omitempty,oneof=Conference Seminar Huddle"`
	ImagePath  *string `json:"image_path"`
}

// GetAllRooms lists the room catalog (public)
func (h *RoomHandler) GetAllRooms(c *gin.Context) {
	rooms, err := h.roomService.GetAllRooms()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch rooms")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// GetRoom retrieves a specific room by ID (public)
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid room ID")
		return
	}

	room, err := h.roomService.GetRoomByID(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, room)
}

// CreateRoom creates a new room (staff only)
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	actor, _ := middleware.GetActor(c)
	room := models.Room{
		RoomName:   req.RoomName,
		Capacity:   req.Capacity,
		Location:   req.Location,
		Facilities: req.Facilities,
		RoomType:   req.RoomType,
		ImagePath:  req.ImagePath,
	}

	if err := h.roomService.CreateRoom(actor, &room); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Room created successfully",
		"room":    room,
	})
}

// UpdateRoom updates an existing room (staff only)
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid room ID")
		return
	}

	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	actor, _ := middleware.GetActor(c)
	room := models.Room{
		ID:         uint(id),
		RoomName:   req.RoomName,
		Capacity:   req.Capacity,
		Location:   req.Location,
		Facilities: req.Facilities,
		RoomType:   req.RoomType,
		ImagePath:  req.ImagePath,
	}

	if err := h.roomService.UpdateRoom(actor, &room); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Room updated successfully",
		"room":    room,
	})
}

// DeleteRoom removes a room and cascades to its reservations (staff only)
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid room ID")
		return
	}

	actor, _ := middleware.GetActor(c)
	if err := h.roomService.DeleteRoom(actor, uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.MessageResponse(c, "Room deleted successfully")
}
