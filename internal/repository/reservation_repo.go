package repository

import (
	"errors"
	"time"

	"room-booking-backend/internal/models"
	"room-booking-backend/internal/service"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// InTx runs fn against a repository bound to a single database
// transaction. The conflict check and the subsequent write share the
// transaction so concurrent overlapping requests serialize on the
// locked (room, date) rows.
func (r *ReservationRepository) InTx(fn func(store service.ReservationStore) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ReservationRepository{db: tx})
	})
}

// FindOverlapping returns confirmed reservations for (room, date) whose
// half-open [start_time, end_time) interval intersects [start, end),
// excluding the reservation with excludeID. Inside a transaction the
// matched rows are locked FOR UPDATE.
func (r *ReservationRepository) FindOverlapping(roomID uint, date time.Time, start, end string, excludeID uint) ([]models.Reservation, error) {
	var overlapping []models.Reservation
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ? AND date = ? AND status = ?", roomID, date.Format("2006-01-02"), models.StatusConfirmed).
		Where("start_time < ? AND end_time > ?", end, start).
		Where("id <> ?", excludeID).
		Find(&overlapping).Error
	return overlapping, err
}

// Insert persists a new reservation
func (r *ReservationRepository) Insert(reservation *models.Reservation) error {
	return r.db.Create(reservation).Error
}

// FindByID retrieves a reservation with its room and user preloaded
func (r *ReservationRepository) FindByID(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.Preload("Room").Preload("User").First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// Save persists changes to an existing reservation
func (r *ReservationRepository) Save(reservation *models.Reservation) error {
	return r.db.Save(reservation).Error
}

// Delete removes a reservation
func (r *ReservationRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

// ListAll retrieves every reservation ordered by (date, start_time, id)
func (r *ReservationRepository) ListAll() ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.Preload("Room").Preload("User").
		Order("date ASC, start_time ASC, id ASC").
		Find(&reservations).Error
	return reservations, err
}

// ListByUser retrieves a single user's reservations ordered by (date, start_time, id)
func (r *ReservationRepository) ListByUser(userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.Preload("Room").Preload("User").
		Where("user_id = ?", userID).
		Order("date ASC, start_time ASC, id ASC").
		Find(&reservations).Error
	return reservations, err
}

// ListConfirmedOn retrieves all confirmed reservations on a calendar date
func (r *ReservationRepository) ListConfirmedOn(date time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.Preload("Room").Preload("User").
		Where("date = ? AND status = ?", date.Format("2006-01-02"), models.StatusConfirmed).
		Order("date ASC, start_time ASC, id ASC").
		Find(&reservations).Error
	return reservations, err
}

// FindRoom retrieves the room a candidate reservation targets
func (r *ReservationRepository) FindRoom(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// FindUser retrieves the user a reservation is booked for
func (r *ReservationRepository) FindUser(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
