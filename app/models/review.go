package models

import "time"

const (
	MinReviewStars = 1
	MaxReviewStars = 5
)

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Username  string    `gorm:"size:100;not null" json:"username"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Stars     int       `gorm:"not null" json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}
