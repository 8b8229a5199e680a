package service

import (
	"errors"
	"testing"

	"room-booking-backend/internal/models"
)

type stubRoomStore struct {
	rooms   map[uint]*models.Room
	nextID  uint
	deleted []uint
}

func newStubRoomStore() *stubRoomStore {
	return &stubRoomStore{rooms: make(map[uint]*models.Room)}
}

func (s *stubRoomStore) GetAllRooms() ([]models.Room, error) {
	var out []models.Room
	for _, r := range s.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (s *stubRoomStore) GetRoomByID(id uint) (*models.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *stubRoomStore) CreateRoom(room *models.Room) error {
	s.nextID++
	room.ID = s.nextID
	s.rooms[room.ID] = room
	return nil
}

func (s *stubRoomStore) UpdateRoom(room *models.Room) error {
	if _, ok := s.rooms[room.ID]; !ok {
		return ErrNotFound
	}
	s.rooms[room.ID] = room
	return nil
}

func (s *stubRoomStore) DeleteRoom(id uint) error {
	if _, ok := s.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(s.rooms, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func TestRoomMutationsRequireStaff(t *testing.T) {
	store := newStubRoomStore()
	svc := NewRoomService(store, &stubAudit{})
	actor := models.Actor{ID: 1}

	room := &models.Room{RoomName: "Boardroom", Capacity: 8, Location: "HQ"}
	if err := svc.CreateRoom(actor, room); !errors.Is(err, ErrPermission) {
		t.Errorf("CreateRoom error = %v, want ErrPermission", err)
	}
	if err := svc.DeleteRoom(actor, 1); !errors.Is(err, ErrPermission) {
		t.Errorf("DeleteRoom error = %v, want ErrPermission", err)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	store := newStubRoomStore()
	svc := NewRoomService(store, &stubAudit{})
	staff := models.Actor{ID: 1, Staff: true}

	err := svc.CreateRoom(staff, &models.Room{Capacity: 0, RoomType: "Garage"})
	if !IsValidation(err) {
		t.Fatalf("CreateRoom error = %v, want ValidationError", err)
	}
	var v *ValidationError
	errors.As(err, &v)
	for _, field := range []string{"room_name", "capacity", "location", "room_type"} {
		if _, ok := v.FieldErrors[field]; !ok {
			t.Errorf("missing field error for %q", field)
		}
	}
	if len(store.rooms) != 0 {
		t.Error("invalid room was persisted")
	}
}

func TestCreateRoomDefaultsType(t *testing.T) {
	store := newStubRoomStore()
	svc := NewRoomService(store, &stubAudit{})
	staff := models.Actor{ID: 1, Staff: true}

	room := &models.Room{RoomName: "Boardroom", Capacity: 8, Location: "HQ"}
	if err := svc.CreateRoom(staff, room); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if room.RoomType != models.RoomTypeConference {
		t.Errorf("room type = %q, want Conference default", room.RoomType)
	}
}

func TestDeleteRoom(t *testing.T) {
	store := newStubRoomStore()
	svc := NewRoomService(store, &stubAudit{})
	staff := models.Actor{ID: 1, Staff: true}

	room := &models.Room{RoomName: "Boardroom", Capacity: 8, Location: "HQ"}
	if err := svc.CreateRoom(staff, room); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if err := svc.DeleteRoom(staff, room.ID); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	if err := svc.DeleteRoom(staff, room.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
