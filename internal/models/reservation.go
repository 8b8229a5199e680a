package models

import "time"

// Reservation statuses
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCancelled = "Cancelled"
)

// Reservation represents the reservations table.
// Start and end times are stored as MySQL TIME columns normalized to
// "HH:MM:SS", so lexicographic comparison matches chronological order.
// The interval is half-open: [start_time, end_time).
type Reservation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;index:idx_room_date_status" json:"room_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;index:idx_room_date_status" json:"date"`
	StartTime string    `gorm:"type:time;not null" json:"start_time"`
	EndTime   string    `gorm:"type:time;not null;check:chk_start_before_end,start_time < end_time" json:"end_time"`
	Status    string    `gorm:"type:enum('Pending','Confirmed','Cancelled');default:'Pending';index:idx_room_date_status" json:"status"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// ValidStatus reports whether s is one of the defined reservation statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// IntervalsOverlap reports whether the half-open intervals [s1,e1) and
// [s2,e2) intersect. Times must be normalized "HH:MM:SS" strings.
func IntervalsOverlap(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// Overlaps reports whether r intersects the half-open interval
// [start,end) on the same room and date. Only Confirmed reservations
// hold the room.
func (r *Reservation) Overlaps(roomID uint, date time.Time, start, end string) bool {
	if r.Status != StatusConfirmed || r.RoomID != roomID {
		return false
	}
	if !sameDay(r.Date, date) {
		return false
	}
	return IntervalsOverlap(r.StartTime, r.EndTime, start, end)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
