package service

import (
	"fmt"
	"log"
	"time"

	"room-booking-backend/internal/models"
	"room-booking-backend/internal/notify"
)

// ReservationService owns the reservation lifecycle: it authorizes the
// acting user, validates intervals, runs the conflict check and fires
// notification side effects. Both the REST handlers and the
// server-rendered views call into it, so the two surfaces cannot
// diverge on authorization or conflict outcomes.
type ReservationService struct {
	store    ReservationStore
	notifier notify.Notifier
	audit    AuditLogger
}

func NewReservationService(store ReservationStore, notifier notify.Notifier, audit AuditLogger) *ReservationService {
	return &ReservationService{
		store:    store,
		notifier: notifier,
		audit:    audit,
	}
}

// CreateInput is a candidate reservation. TargetUserID is honored for
// staff actors only; everyone else books for themselves.
type CreateInput struct {
	RoomID       uint
	Date         time.Time
	StartTime    string
	EndTime      string
	TargetUserID uint
}

// UpdateInput is a partial patch; nil fields are left unchanged.
type UpdateInput struct {
	RoomID    *uint
	UserID    *uint
	Date      *time.Time
	StartTime *string
	EndTime   *string
	Status    *string
}

// Result is a successful mutation outcome. Warning is set when the
// reservation committed but its notification could not be delivered.
type Result struct {
	Reservation *models.Reservation
	Warning     string
}

// Create books a room for the half-open interval [start, end) on the
// given date. The conflict check and the insert run in one transaction
// over the locked (room, date) rows, so two concurrent overlapping
// requests cannot both commit.
func (s *ReservationService) Create(actor models.Actor, in CreateInput) (*Result, error) {
	v := &ValidationError{}
	if in.RoomID == 0 {
		v.add("room", "room is required")
	}
	if in.Date.IsZero() {
		v.add("date", "date is required")
	}
	start, end, err := normalizeInterval(in.StartTime, in.EndTime)
	if err != nil {
		v.add(err.field, err.message)
	}
	if v.HasErrors() {
		return nil, v
	}

	targetID := in.TargetUserID
	if targetID == 0 || !actor.Staff {
		// Non-staff users always book for themselves.
		targetID = actor.ID
	}

	room, err2 := s.store.FindRoom(in.RoomID)
	if err2 != nil {
		return nil, err2
	}
	user, err2 := s.store.FindUser(targetID)
	if err2 != nil {
		return nil, err2
	}

	reservation := &models.Reservation{
		RoomID:    in.RoomID,
		UserID:    targetID,
		Date:      truncateToDate(in.Date),
		StartTime: start,
		EndTime:   end,
		Status:    models.StatusConfirmed,
	}

	err2 = s.store.InTx(func(tx ReservationStore) error {
		overlapping, err := tx.FindOverlapping(reservation.RoomID, reservation.Date, start, end, 0)
		if err != nil {
			return fmt.Errorf("overlap query failed: %w", err)
		}
		if len(overlapping) > 0 {
			return &ConflictError{WithReservationID: overlapping[0].ID}
		}
		return tx.Insert(reservation)
	})
	if err2 != nil {
		return nil, err2
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "reservation_created", map[string]interface{}{
		"reservation_id": reservation.ID,
		"room_id":        reservation.RoomID,
		"user_id":        reservation.UserID,
		"date":           reservation.Date.Format("2006-01-02"),
	})

	result := &Result{Reservation: reservation}
	if err := s.notifier.Send(notify.KindConfirmation, user.Email, s.snapshot(reservation, room.RoomName, user.Username)); err != nil {
		log.Printf("confirmation notification failed for reservation %d: %v", reservation.ID, err)
		result.Warning = "reservation confirmed, but the notification email could not be sent"
	}
	return result, nil
}

// Update applies a patch to an existing reservation. Staff may change
// any field; the owner may move their own booking or cancel it. A
// non-staff patch silently drops the user field and any status value
// other than Cancelled instead of rejecting the request.
func (s *ReservationService) Update(actor models.Actor, id uint, patch UpdateInput) (*Result, error) {
	reservation, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && reservation.UserID != actor.ID {
		return nil, ErrPermission
	}

	if !actor.Staff {
		patch.UserID = nil
		if patch.Status != nil && *patch.Status != models.StatusCancelled {
			patch.Status = nil
		}
	}
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		v := &ValidationError{}
		v.add("status", fmt.Sprintf("unknown status %q", *patch.Status))
		return nil, v
	}

	wasCancelled := reservation.Status == models.StatusCancelled
	intervalChanged := false
	ownerChanged := false

	if patch.RoomID != nil && *patch.RoomID != reservation.RoomID {
		if _, err := s.store.FindRoom(*patch.RoomID); err != nil {
			return nil, err
		}
		reservation.RoomID = *patch.RoomID
		intervalChanged = true
	}
	if patch.UserID != nil && *patch.UserID != reservation.UserID {
		if _, err := s.store.FindUser(*patch.UserID); err != nil {
			return nil, err
		}
		reservation.UserID = *patch.UserID
		ownerChanged = true
	}
	if patch.Date != nil && !sameDate(*patch.Date, reservation.Date) {
		reservation.Date = truncateToDate(*patch.Date)
		intervalChanged = true
	}

	newStart, newEnd := reservation.StartTime, reservation.EndTime
	if patch.StartTime != nil {
		newStart = *patch.StartTime
	}
	if patch.EndTime != nil {
		newEnd = *patch.EndTime
	}
	if patch.StartTime != nil || patch.EndTime != nil {
		start, end, nerr := normalizeInterval(newStart, newEnd)
		if nerr != nil {
			v := &ValidationError{}
			v.add(nerr.field, nerr.message)
			return nil, v
		}
		if start != reservation.StartTime || end != reservation.EndTime {
			reservation.StartTime = start
			reservation.EndTime = end
			intervalChanged = true
		}
	}

	statusChanged := false
	if patch.Status != nil && *patch.Status != reservation.Status {
		reservation.Status = *patch.Status
		statusChanged = true
	}

	if !intervalChanged && !statusChanged && !ownerChanged {
		// Nothing to write; cancelling an already-cancelled reservation
		// lands here and triggers no further notification.
		return &Result{Reservation: reservation}, nil
	}

	// The overlap invariant only constrains Confirmed reservations, so
	// the check re-runs when the interval moves or the reservation
	// re-enters Confirmed.
	needsCheck := reservation.Status == models.StatusConfirmed && (intervalChanged || statusChanged)

	err = s.store.InTx(func(tx ReservationStore) error {
		if needsCheck {
			overlapping, err := tx.FindOverlapping(reservation.RoomID, reservation.Date, reservation.StartTime, reservation.EndTime, reservation.ID)
			if err != nil {
				return fmt.Errorf("overlap query failed: %w", err)
			}
			if len(overlapping) > 0 {
				return &ConflictError{WithReservationID: overlapping[0].ID}
			}
		}
		return tx.Save(reservation)
	})
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "reservation_updated", map[string]interface{}{
		"reservation_id": reservation.ID,
		"status":         reservation.Status,
	})

	result := &Result{Reservation: reservation}
	if !wasCancelled && reservation.Status == models.StatusCancelled {
		owner, err := s.store.FindUser(reservation.UserID)
		if err != nil {
			log.Printf("cancellation notification skipped for reservation %d: %v", reservation.ID, err)
			result.Warning = "reservation cancelled, but the notification email could not be sent"
			return result, nil
		}
		roomName := reservation.Room.RoomName
		if room, err := s.store.FindRoom(reservation.RoomID); err == nil {
			roomName = room.RoomName
		}
		if err := s.notifier.Send(notify.KindCancellation, owner.Email, s.snapshot(reservation, roomName, owner.Username)); err != nil {
			log.Printf("cancellation notification failed for reservation %d: %v", reservation.ID, err)
			result.Warning = "reservation cancelled, but the notification email could not be sent"
		}
	}
	return result, nil
}

// Cancel is the one-way terminal transition, shared by both surfaces.
func (s *ReservationService) Cancel(actor models.Actor, id uint) (*Result, error) {
	status := models.StatusCancelled
	return s.Update(actor, id, UpdateInput{Status: &status})
}

// Delete removes a reservation outright. Staff may delete any;
// everyone else only their own.
func (s *ReservationService) Delete(actor models.Actor, id uint) error {
	reservation, err := s.store.FindByID(id)
	if err != nil {
		return err
	}
	if !actor.Staff && reservation.UserID != actor.ID {
		return ErrPermission
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "reservation_deleted", map[string]interface{}{
		"reservation_id": id,
	})
	return nil
}

// ListVisible returns the reservations the actor may see, ordered by
// (date, start_time) with id as the stable tiebreaker. Staff see all;
// everyone else only their own.
func (s *ReservationService) ListVisible(actor models.Actor) ([]models.Reservation, error) {
	if actor.Staff {
		return s.store.ListAll()
	}
	return s.store.ListByUser(actor.ID)
}

// ListOwn returns the actor's own reservations regardless of the staff
// flag, in the same order.
func (s *ReservationService) ListOwn(actor models.Actor) ([]models.Reservation, error) {
	return s.store.ListByUser(actor.ID)
}

// Get returns a single reservation, applying the same visibility rule.
func (s *ReservationService) Get(actor models.Actor, id uint) (*models.Reservation, error) {
	reservation, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && reservation.UserID != actor.ID {
		return nil, ErrPermission
	}
	return reservation, nil
}

func (s *ReservationService) snapshot(r *models.Reservation, roomName, username string) notify.Snapshot {
	return notify.Snapshot{
		ReservationID: r.ID,
		Username:      username,
		RoomName:      roomName,
		Date:          r.Date.Format("2006-01-02"),
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
	}
}

type intervalError struct {
	field   string
	message string
}

// normalizeInterval parses "HH:MM" or "HH:MM:SS" clock strings,
// normalizes them to "HH:MM:SS" and enforces start < end.
func normalizeInterval(start, end string) (string, string, *intervalError) {
	ns, err := normalizeClock(start)
	if err != nil {
		return "", "", &intervalError{field: "start_time", message: err.Error()}
	}
	ne, err := normalizeClock(end)
	if err != nil {
		return "", "", &intervalError{field: "end_time", message: err.Error()}
	}
	if ns >= ne {
		return "", "", &intervalError{field: "start_time", message: "start time must be before end time"}
	}
	return ns, ne, nil
}

func normalizeClock(value string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q, expected HH:MM", value)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
