package models

import "time"

// Room types offered for booking
const (
	RoomTypeConference = "Conference"
	RoomTypeSeminar    = "Seminar"
	RoomTypeHuddle     = "Huddle"
)

// Room represents a bookable room
type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomName  string    `gorm:"size:100;not null" json:"room_name"`
	Capacity  uint      `gorm:"not null" json:"capacity"`
	Location  string    `gorm:"size:255;not null" json:"location"`
	Facilities string   `gorm:"type:text" json:"facilities,omitempty"` // e.g. "Projector, Whiteboard"
	RoomType  string    `gorm:"type:enum('Conference','Seminar','Huddle');default:'Conference'" json:"room_type"`
	ImagePath *string   `gorm:"size:255" json:"image_path,omitempty"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`

	// Relationships
	Reservations []Reservation `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"reservations,omitempty"`
}

// TableName specifies the table name for Room model
func (Room) TableName() string {
	return "rooms"
}

// ValidRoomType reports whether t is one of the supported room types.
func ValidRoomType(t string) bool {
	switch t {
	case RoomTypeConference, RoomTypeSeminar, RoomTypeHuddle:
		return true
	}
	return false
}
