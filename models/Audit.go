package models

import "gorm.io/gorm"

type AuditLog struct {
	gorm.Model
	UserID       uint   `json:"userId" gorm:"index"`
	Action       string `json:"action"` // create, update_status, delete, import...
	ResourceType string `json:"resourceType"`
	ResourceID   uint   `json:"resourceId"`
	BeforeJSON   string `json:"beforeJson" gorm:"type:text"`
	AfterJSON    string `json:"afterJson" gorm:"type:text"`
	IPAddress    string `json:"ipAddress"`
}
