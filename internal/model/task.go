package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"size:500;not null"`
	Completed bool      `json:"completed" gorm:"default:false"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// TaskPatch carries the fields of a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// Apply copies the present patch fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
