package models

import "time"

// Cart scopes cart lines to one session. Version is bumped by every
// mutation of its lines so the contents behave as a single aggregate.
type Cart struct {
	ID        string     `gorm:"size:36;not null;primaryKey" json:"id"`
	Version   int64      `gorm:"not null;default:0" json:"version"`
	CartItems []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
