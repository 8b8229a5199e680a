package repository

import (
	"encoding/json"

	"room-booking-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry. Details are stored as a
// JSON document so lifecycle events keep their structure.
func (r *AuditRepository) CreateAuditLog(userID *uint, action string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	log := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: datatypes.JSON(payload),
	}
	return r.db.Create(log).Error
}
