package models

// AuditLog records mutating user operations.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"userId"`
	Action       string `gorm:"size:50;not null" json:"action"`
	ResourceType string `gorm:"size:50;not null" json:"resourceType"`
	ResourceID   string `gorm:"size:36" json:"resourceId"`
	IPAddress    string `gorm:"size:45" json:"ipAddress"`
	Changes      string `json:"changes,omitempty"`
}
