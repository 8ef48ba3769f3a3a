package models

import "gorm.io/gorm"

// Notification is a delivery-agnostic record; actual mail/push delivery is
// handled outside this service.
type Notification struct {
	gorm.Model
	UserID  uint   `json:"userId" gorm:"index"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	RefType string `json:"refType"` // liquidation, import_batch...
	RefID   uint   `json:"refId"`
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
