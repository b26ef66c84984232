package models

import "time"

// CartSession stores the serialized cart state for one storefront session.
type CartSession struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	State     string    `gorm:"column:state;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table created by the goose migrations.
func (CartSession) TableName() string {
	return "cart_sessions"
}
