// internal/models/item.go
package models

import "time"

// Item status constants
const (
	ItemStatusPending            = "Pending"
	ItemStatusPartiallyCompleted = "Partially Completed"
	ItemStatusCompleted          = "Completed"
)

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusPartiallyCompleted, ItemStatusCompleted:
		return true
	}
	return false
}

// TaskItem is a checklist entry under a task. Items are only ever reached
// through their owning task, so they carry no owner column of their own.
type TaskItem struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TaskID    uint       `gorm:"index;not null" json:"task_id"`
	Content   string     `gorm:"size:255;not null" json:"content"`
	Status    string     `gorm:"size:50;not null;default:Pending" json:"status"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (TaskItem) TableName() string { return "task_items" }
