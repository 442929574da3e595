package model

import "time"

// AuditLog records an administrative action against a resource.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     *uint     `json:"user_id" gorm:"index"` // acting user, soft reference
	Action     string    `json:"action" gorm:"size:100;not null"`
	Resource   string    `json:"resource" gorm:"size:100"`
	ResourceID *uint     `json:"resource_id"`
	Changes    string    `json:"changes" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}
