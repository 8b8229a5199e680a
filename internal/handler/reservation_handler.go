package handler

import (
	"net/http"
	"strconv"
	"time"

	"room-booking-backend/internal/middleware"
	"room-booking-backend/internal/service"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type ReservationHandler struct {
	reservationService *service.ReservationService
}

func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

type createReservationRequest struct {
	RoomID    uint   `json:"room_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	// Honored for staff callers only; everyone else books for themselves.
	UserID uint `json:"user_id"`
}

type updateReservationRequest struct {
	RoomID    *uint   `json:"room_id"`
	UserID    *uint   `json:"user_id"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Status    *string `json:"status"`
}

// ListReservations returns the reservations visible to the caller:
// staff see all, everyone else sees their own
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	reservations, err := h.reservationService.ListVisible(actor)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch reservations")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

// ListMyReservations returns the caller's own reservations, even for
// staff callers
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	reservations, err := h.reservationService.ListOwn(actor)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch reservations")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

// GetReservation returns a single reservation the caller may see
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	actor, _ := middleware.GetActor(c)
	reservation, err := h.reservationService.Get(actor, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, reservation)
}

// CreateReservation books a room
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	actor, _ := middleware.GetActor(c)
	result, err := h.reservationService.Create(actor, service.CreateInput{
		RoomID:       req.RoomID,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		TargetUserID: req.UserID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{
		"message":     "Reservation made successfully",
		"reservation": result.Reservation,
	}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}
	utils.SuccessResponse(c, response)
}

// UpdateReservation applies a partial patch to a reservation
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	patch := service.UpdateInput{
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}

	actor, _ := middleware.GetActor(c)
	result, err := h.reservationService.Update(actor, uint(id), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{
		"message":     "Reservation updated successfully",
		"reservation": result.Reservation,
	}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}
	utils.SuccessResponse(c, response)
}

// DeleteReservation removes a reservation the caller owns (or any, for staff)
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	actor, _ := middleware.GetActor(c)
	if err := h.reservationService.Delete(actor, uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.MessageResponse(c, "Reservation deleted successfully")
}
