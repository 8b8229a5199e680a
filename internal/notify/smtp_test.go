package notify

import (
	"strings"
	"testing"

	"room-booking-backend/internal/config"
)

var testSnap = Snapshot{
	ReservationID: 42,
	Username:      "alice",
	RoomName:      "Boardroom",
	Date:          "2025-03-10",
	StartTime:     "09:00:00",
	EndTime:       "10:00:00",
}

func TestSendFallsBackToMockWithoutSMTPConfig(t *testing.T) {
	n := NewSMTPNotifier(config.SMTPConfig{})
	if err := n.Send(KindConfirmation, "alice@example.com", testSnap); err != nil {
		t.Fatalf("mock send failed: %v", err)
	}
}

func TestSendRejectsUnknownKind(t *testing.T) {
	n := NewSMTPNotifier(config.SMTPConfig{})
	err := n.Send(Kind("postcard"), "alice@example.com", testSnap)
	if err == nil {
		t.Fatal("unknown kind accepted")
	}
	nerr, ok := err.(*NotifyError)
	if !ok {
		t.Fatalf("error type = %T, want *NotifyError", err)
	}
	if nerr.Recipient != "alice@example.com" {
		t.Errorf("recipient = %q", nerr.Recipient)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Booking <noreply@example.com>", "alice@example.com",
		subjects[KindConfirmation], KindConfirmation, testSnap)

	for _, want := range []string{
		"Subject: Your Reservation Confirmation\r\n",
		"To: alice@example.com\r\n",
		"Content-Type: multipart/alternative",
		"Content-Type: text/plain",
		"Content-Type: text/html",
		"Boardroom",
		"09:00:00",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if !strings.HasSuffix(msg, "--"+mimeBoundary+"--\r\n") {
		t.Error("message missing closing MIME boundary")
	}
}

func TestBodiesMentionCancellation(t *testing.T) {
	plain := plainBody(KindCancellation, testSnap)
	if !strings.Contains(plain, "cancelled") {
		t.Errorf("plain cancellation body = %q", plain)
	}
	html := htmlBody(KindReminder, testSnap)
	if !strings.Contains(html, "Reservation reminder") {
		t.Errorf("html reminder body missing headline")
	}
}
