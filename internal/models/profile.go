package models

import "time"

// Profile extends a user with optional contact details.
// A user owns zero or one profile.
type Profile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone        string    `gorm:"size:20" json:"phone,omitempty"`
	EmailAddress string    `gorm:"size:255" json:"email_address,omitempty"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for Profile model
func (Profile) TableName() string {
	return "profiles"
}
