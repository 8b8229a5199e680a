package service

import (
	"time"

	"room-booking-backend/internal/models"
)

// UserStore is the persistence surface the auth and user services need.
// Implemented by repository.UserRepository.
type UserStore interface {
	FindUserByUsername(username string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	UpsertProfile(profile *models.Profile) error
	CreateRefreshToken(token *models.RefreshToken) error
	FindRefreshTokenByHash(hash string) (*models.RefreshToken, error)
	RevokeRefreshTokenByHash(hash string) error
}

// RoomStore is the persistence surface the room service needs.
// Implemented by repository.RoomRepository.
type RoomStore interface {
	GetAllRooms() ([]models.Room, error)
	GetRoomByID(id uint) (*models.Room, error)
	CreateRoom(room *models.Room) error
	UpdateRoom(room *models.Room) error
	DeleteRoom(id uint) error
}

// ReservationStore is the persistence surface of the reservation
// lifecycle. Implemented by repository.ReservationRepository.
type ReservationStore interface {
	// InTx runs fn against a store bound to a single transaction so the
	// conflict check and the following write commit or fail together.
	InTx(fn func(store ReservationStore) error) error
	FindOverlapping(roomID uint, date time.Time, start, end string, excludeID uint) ([]models.Reservation, error)
	Insert(reservation *models.Reservation) error
	FindByID(id uint) (*models.Reservation, error)
	Save(reservation *models.Reservation) error
	Delete(id uint) error
	ListAll() ([]models.Reservation, error)
	ListByUser(userID uint) ([]models.Reservation, error)
	ListConfirmedOn(date time.Time) ([]models.Reservation, error)
	FindRoom(id uint) (*models.Room, error)
	FindUser(id uint) (*models.User, error)
}

// AuditLogger records admin and lifecycle actions.
// Implemented by repository.AuditRepository.
type AuditLogger interface {
	CreateAuditLog(userID *uint, action string, details map[string]interface{}) error
}
