package service

import (
	"fmt"

	"room-booking-backend/internal/models"
)

// RoomService covers the room catalog: listing is public, mutation is
// staff only. Deleting a room cascades to its reservations.
type RoomService struct {
	roomStore RoomStore
	audit     AuditLogger
}

func NewRoomService(roomStore RoomStore, audit AuditLogger) *RoomService {
	return &RoomService{
		roomStore: roomStore,
		audit:     audit,
	}
}

// GetAllRooms lists every room ordered by name
func (s *RoomService) GetAllRooms() ([]models.Room, error) {
	return s.roomStore.GetAllRooms()
}

// GetRoomByID fetches a single room
func (s *RoomService) GetRoomByID(id uint) (*models.Room, error) {
	return s.roomStore.GetRoomByID(id)
}

// CreateRoom adds a room to the catalog (staff only)
func (s *RoomService) CreateRoom(actor models.Actor, room *models.Room) error {
	if !actor.Staff {
		return ErrPermission
	}
	if err := validateRoom(room); err != nil {
		return err
	}

	if err := s.roomStore.CreateRoom(room); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "room_created", map[string]interface{}{
		"room_id":   room.ID,
		"room_name": room.RoomName,
	})
	return nil
}

// UpdateRoom edits a room's mutable attributes (staff only)
func (s *RoomService) UpdateRoom(actor models.Actor, room *models.Room) error {
	if !actor.Staff {
		return ErrPermission
	}
	if err := validateRoom(room); err != nil {
		return err
	}

	existing, err := s.roomStore.GetRoomByID(room.ID)
	if err != nil {
		return err
	}
	room.CreatedAt = existing.CreatedAt

	if err := s.roomStore.UpdateRoom(room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "room_updated", map[string]interface{}{"room_id": room.ID})
	return nil
}

// DeleteRoom removes a room and its reservations (staff only)
func (s *RoomService) DeleteRoom(actor models.Actor, id uint) error {
	if !actor.Staff {
		return ErrPermission
	}

	if err := s.roomStore.DeleteRoom(id); err != nil {
		return err
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "room_deleted", map[string]interface{}{"room_id": id})
	return nil
}

func validateRoom(room *models.Room) error {
	v := &ValidationError{}
	if room.RoomName == "" {
		v.add("room_name", "room name is required")
	}
	if room.Capacity == 0 {
		v.add("capacity", "capacity must be a positive integer")
	}
	if room.Location == "" {
		v.add("location", "location is required")
	}
	if room.RoomType == "" {
		room.RoomType = models.RoomTypeConference
	} else if !models.ValidRoomType(room.RoomType) {
		v.add("room_type", fmt.Sprintf("unknown room type %q", room.RoomType))
	}
	if v.HasErrors() {
		return v
	}
	return nil
}
