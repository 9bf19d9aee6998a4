// internal/repository/task_repository.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/AnanyaNagabhushan/taskflow/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskInput carries the fields for a new task. Defaults are applied by the
// service layer before it reaches the repository.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// TaskUpdateInput carries a partial update; nil fields are left untouched.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Completed   *bool
}

// ListFilter narrows and orders a task listing. Limit/Offset are already
// resolved from page/per_page by the caller.
type ListFilter struct {
	Status    *string
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

func (r *TaskRepository) Create(ctx context.Context, userID uint, input *TaskInput) (*models.Task, error) {
	t := &models.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Completed:   input.Status == models.TaskStatusCompleted,
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// GetByID returns the task only when it belongs to userID, so a foreign
// task is indistinguishable from a missing one.
func (r *TaskRepository) GetByID(ctx context.Context, userID, id uint) (*models.Task, error) {
	var t models.Task
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context, userID uint, filter ListFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("user_id = ?", userID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}
	switch filter.SortBy {
	case "updated_at":
		query = query.Order("updated_at " + order)
	case "created_at":
		query = query.Order("created_at " + order)
	default:
		query = query.Order("created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var tasks []models.Task
	if err := query.Preload("Items").Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	return tasks, totalCount, nil
}

func (r *TaskRepository) Update(ctx context.Context, userID, id uint, input *TaskUpdateInput) (*models.Task, error) {
	var t models.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Status != nil {
		updates["status"] = *input.Status
		updates["completed"] = *input.Status == models.TaskStatusCompleted
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.Completed != nil {
		updates["completed"] = *input.Completed
		if *input.Completed {
			updates["status"] = models.TaskStatusCompleted
		} else {
			// Un-completing must also move the status off completed, or the
			// flag and the status would disagree.
			status := t.Status
			if s, ok := updates["status"].(string); ok {
				status = s
			}
			if status == models.TaskStatusCompleted {
				updates["status"] = models.TaskStatusPending
			}
		}
	}

	if len(updates) == 0 {
		return &t, nil
	}

	if err := r.db.WithContext(ctx).Model(&t).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &t, nil
}

// Delete removes the owned task and its items in one transaction.
func (r *TaskRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Task
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", t.ID).Delete(&models.TaskItem{}).Error; err != nil {
			return fmt.Errorf("delete task items: %w", err)
		}
		if err := tx.Delete(&t).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
}

// BulkDelete removes the caller's tasks among ids and reports how many
// matched. Foreign ids are silently skipped.
func (r *TaskRepository) BulkDelete(ctx context.Context, userID uint, ids []uint) (int64, error) {
	var matched int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&models.Task{}).
			Where("id IN ? AND user_id = ?", ids, userID).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		matched = int64(len(taskIDs))
		if matched == 0 {
			return nil
		}
		if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskItem{}).Error; err != nil {
			return fmt.Errorf("delete task items: %w", err)
		}
		if err := tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		return nil
	})
	return matched, err
}

// BulkUpdateStatus sets status on the caller's tasks among ids.
func (r *TaskRepository) BulkUpdateStatus(ctx context.Context, userID uint, ids []uint, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Updates(map[string]interface{}{
			"status":    status,
			"completed": status == models.TaskStatusCompleted,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("bulk update status: %w", result.Error)
	}
	return result.RowsAffected, nil
}
