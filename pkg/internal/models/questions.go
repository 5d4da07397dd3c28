package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel is embedded by every persisted entity. Timestamps are stored but
// kept off the wire.
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Question struct {
	BaseModel

	QuestionText string    `json:"question" gorm:"size:200;not null"`
	PubDate      time.Time `json:"-"`
	Choices      []Choice  `json:"choices" gorm:"constraint:OnDelete:CASCADE"`
}

// AfterFind keeps the choices list an array on the wire even when empty.
func (v *Question) AfterFind(tx *gorm.DB) error {
	if v.Choices == nil {
		v.Choices = make([]Choice, 0)
	}
	return nil
}

type Choice struct {
	BaseModel

	ChoiceText string `json:"choice_text" gorm:"size:200;not null"`
	Votes      int    `json:"-" gorm:"default:0;check:votes >= 0"`
	QuestionID uint   `json:"-" gorm:"not null;index"`
}
