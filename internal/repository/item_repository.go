// internal/repository/item_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AnanyaNagabhushan/taskflow/internal/models"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ItemInput carries the fields for a new checklist item.
type ItemInput struct {
	Content string
	Status  string
	DueDate *time.Time
}

// ItemUpdateInput carries a partial update; nil fields are left untouched.
// A nil DueDate therefore means "keep", not "clear"; a due date can be set
// or moved through this path but not removed.
type ItemUpdateInput struct {
	Content *string
	Status  *string
	DueDate *time.Time
}

// taskOwned verifies the task exists and belongs to userID. Every item
// operation goes through this check, so items of foreign tasks behave as
// if they do not exist.
func (r *ItemRepository) taskOwned(ctx context.Context, userID, taskID uint) error {
	var t models.Task
	return r.db.WithContext(ctx).
		Select("id").
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&t).Error
}

func (r *ItemRepository) Create(ctx context.Context, userID, taskID uint, input *ItemInput) (*models.TaskItem, error) {
	if err := r.taskOwned(ctx, userID, taskID); err != nil {
		return nil, err
	}

	item := &models.TaskItem{
		TaskID:  taskID,
		Content: input.Content,
		Status:  input.Status,
		DueDate: input.DueDate,
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (r *ItemRepository) ListForTask(ctx context.Context, userID, taskID uint) ([]models.TaskItem, error) {
	if err := r.taskOwned(ctx, userID, taskID); err != nil {
		return nil, err
	}

	var items []models.TaskItem
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, userID, taskID, itemID uint) (*models.TaskItem, error) {
	var item models.TaskItem
	err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = task_items.task_id").
		Where("task_items.id = ? AND task_items.task_id = ? AND tasks.user_id = ?", itemID, taskID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) Update(ctx context.Context, userID, taskID, itemID uint, input *ItemUpdateInput) (*models.TaskItem, error) {
	item, err := r.GetByID(ctx, userID, taskID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}

	if len(updates) == 0 {
		return item, nil
	}

	if err := r.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// ownedItemIDs resolves which of ids belong to the user, joined through the
// owning tasks.
func ownedItemIDs(tx *gorm.DB, userID uint, ids []uint) ([]uint, error) {
	var itemIDs []uint
	err := tx.Model(&models.TaskItem{}).
		Joins("JOIN tasks ON tasks.id = task_items.task_id").
		Where("task_items.id IN ? AND tasks.user_id = ?", ids, userID).
		Pluck("task_items.id", &itemIDs).Error
	return itemIDs, err
}

// BulkDelete removes the caller's items among ids and reports how many
// matched. Foreign ids are silently skipped.
func (r *ItemRepository) BulkDelete(ctx context.Context, userID uint, ids []uint) (int64, error) {
	var matched int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemIDs, err := ownedItemIDs(tx, userID, ids)
		if err != nil {
			return err
		}
		matched = int64(len(itemIDs))
		if matched == 0 {
			return nil
		}
		if err := tx.Where("id IN ?", itemIDs).Delete(&models.TaskItem{}).Error; err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		return nil
	})
	return matched, err
}

// BulkUpdateStatus sets status on the caller's items among ids.
func (r *ItemRepository) BulkUpdateStatus(ctx context.Context, userID uint, ids []uint, status string) (int64, error) {
	var matched int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemIDs, err := ownedItemIDs(tx, userID, ids)
		if err != nil {
			return err
		}
		matched = int64(len(itemIDs))
		if matched == 0 {
			return nil
		}
		if err := tx.Model(&models.TaskItem{}).
			Where("id IN ?", itemIDs).
			Update("status", status).Error; err != nil {
			return fmt.Errorf("bulk update item status: %w", err)
		}
		return nil
	})
	return matched, err
}

func (r *ItemRepository) Delete(ctx context.Context, userID, taskID, itemID uint) error {
	item, err := r.GetByID(ctx, userID, taskID, itemID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
