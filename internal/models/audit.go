package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents the audit_logs table
// Used for tracking admin actions and reservation lifecycle events
type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	Action    string         `gorm:"size:100;not null" json:"action"`
	Details   datatypes.JSON `gorm:"type:json" json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
