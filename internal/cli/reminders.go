package cli

import (
	"log"
	"time"

	"room-booking-backend/internal/config"
	"room-booking-backend/internal/database"
	"room-booking-backend/internal/notify"
	"room-booking-backend/internal/repository"
	"room-booking-backend/internal/service"

	"github.com/spf13/cobra"
)

func NewSendRemindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-reminders",
		Short: "Send reminder emails for tomorrow's confirmed reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			db := database.Connect(cfg)

			reservationRepo := repository.NewReservationRepo(db)
			notifier := notify.NewSMTPNotifier(cfg.SMTP)
			reminders := service.NewReminderService(reservationRepo, notifier)

			sent, err := reminders.SendReminders(time.Now())
			if err != nil {
				return err
			}
			log.Printf("Sent %d reminder(s)", sent)
			return nil
		},
	}
}
