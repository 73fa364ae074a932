package model

import (
	"time"

	"gorm.io/gorm"
)

// Review represents one user's review of a book. The owning user is the
// only one allowed to edit or delete it; that rule lives in the service
// layer, the model just carries the owner reference.
type Review struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	BookTitle  string         `json:"book_title" gorm:"size:255;not null;index"`
	ReviewText string         `json:"review_text" gorm:"type:text;not null"`
	Rating     *int           `json:"rating,omitempty" gorm:"default:null"` // optional, 1-5
	UserID     uint           `json:"user_id" gorm:"not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}
