package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"room-booking-backend/internal/config"
)

const mimeBoundary = "----=_BOOKING_EMAIL_BOUNDARY"

var subjects = map[Kind]string{
	KindConfirmation: "Your Reservation Confirmation",
	KindCancellation: "Your Reservation Cancelled",
	KindReminder:     "Reminder: Your Room Reservation is Tomorrow",
}

// SMTPNotifier sends booking emails through a plain-auth SMTP relay.
// When the relay is not configured it logs a mock send instead, so
// development environments work without mail credentials.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send dispatches one notification email for the reservation snapshot.
func (n *SMTPNotifier) Send(kind Kind, recipientEmail string, snap Snapshot) error {
	subject, ok := subjects[kind]
	if !ok {
		return &NotifyError{Kind: kind, Recipient: recipientEmail, Err: fmt.Errorf("unknown notification kind %q", kind)}
	}

	if n.cfg.Host == "" || n.cfg.Port == "" || n.cfg.Username == "" || n.cfg.Password == "" {
		log.Printf("[MOCK EMAIL] kind:%s to:%s reservation:%d room:%s %s %s-%s",
			kind, recipientEmail, snap.ReservationID, snap.RoomName, snap.Date, snap.StartTime, snap.EndTime)
		return nil
	}

	from := fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.Username)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)

	msg := buildMessage(from, recipientEmail, subject, kind, snap)

	if err := smtp.SendMail(addr, auth, n.cfg.Username, []string{recipientEmail}, []byte(msg)); err != nil {
		return &NotifyError{Kind: kind, Recipient: recipientEmail, Err: err}
	}
	return nil
}

func buildMessage(from, to, subject string, kind Kind, snap Snapshot) string {
	plainBody := plainBody(kind, snap)
	htmlBody := htmlBody(kind, snap)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", mimeBoundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", mimeBoundary))
	return sb.String()
}

func plainBody(kind Kind, snap Snapshot) string {
	switch kind {
	case KindConfirmation:
		return fmt.Sprintf(
			"Hi %s,\n\n"+
				"Your reservation is confirmed: %s on %s from %s to %s.\n\n"+
				"Thank you,\nConference Booking System\n",
			snap.Username, snap.RoomName, snap.Date, snap.StartTime, snap.EndTime)
	case KindCancellation:
		return fmt.Sprintf(
			"Hi %s,\n\n"+
				"Your reservation for %s on %s from %s to %s has been cancelled.\n\n"+
				"Thank you,\nConference Booking System\n",
			snap.Username, snap.RoomName, snap.Date, snap.StartTime, snap.EndTime)
	default:
		return fmt.Sprintf(
			"Hi %s,\n\n"+
				"This is a friendly reminder that you have booked %s on %s from %s to %s.\n\n"+
				"Thank you,\nConference Booking System\n",
			snap.Username, snap.RoomName, snap.Date, snap.StartTime, snap.EndTime)
	}
}

func htmlBody(kind Kind, snap Snapshot) string {
	var headline string
	switch kind {
	case KindConfirmation:
		headline = "Reservation confirmed"
	case KindCancellation:
		headline = "Reservation cancelled"
	default:
		headline = "Reservation reminder"
	}

	return fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>%s</h2>
    <p>Hi %s,</p>
    <p><strong>%s</strong> on %s from %s to %s.</p>
  </div>
</div>
</body>
</html>`,
		headline, headline, snap.Username, snap.RoomName, snap.Date, snap.StartTime, snap.EndTime)
}
