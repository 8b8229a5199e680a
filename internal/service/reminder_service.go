package service

import (
	"fmt"
	"log"
	"time"

	"room-booking-backend/internal/notify"
)

// ReminderService sends reminder emails for tomorrow's confirmed
// reservations. It runs as a one-shot CLI command, typically from cron.
type ReminderService struct {
	store    ReservationStore
	notifier notify.Notifier
}

func NewReminderService(store ReservationStore, notifier notify.Notifier) *ReminderService {
	return &ReminderService{
		store:    store,
		notifier: notifier,
	}
}

// SendReminders dispatches one reminder per confirmed reservation
// scheduled for the day after now. It keeps going past individual
// delivery failures and returns how many reminders were sent.
func (s *ReminderService) SendReminders(now time.Time) (int, error) {
	tomorrow := now.AddDate(0, 0, 1)
	reservations, err := s.store.ListConfirmedOn(tomorrow)
	if err != nil {
		return 0, fmt.Errorf("failed to load tomorrow's reservations: %w", err)
	}

	sent := 0
	for i := range reservations {
		reservation := &reservations[i]
		recipient, username := reservation.User.Email, reservation.User.Username
		if recipient == "" {
			user, err := s.store.FindUser(reservation.UserID)
			if err != nil {
				log.Printf("reminder skipped for reservation %d: %v", reservation.ID, err)
				continue
			}
			recipient, username = user.Email, user.Username
		}

		snap := notify.Snapshot{
			ReservationID: reservation.ID,
			Username:      username,
			RoomName:      reservation.Room.RoomName,
			Date:          reservation.Date.Format("2006-01-02"),
			StartTime:     reservation.StartTime,
			EndTime:       reservation.EndTime,
		}
		if err := s.notifier.Send(notify.KindReminder, recipient, snap); err != nil {
			log.Printf("reminder failed for reservation %d: %v", reservation.ID, err)
			continue
		}
		log.Printf("Reminder sent to %s", recipient)
		sent++
	}

	return sent, nil
}
