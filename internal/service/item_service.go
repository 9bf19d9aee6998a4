// internal/service/item_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AnanyaNagabhushan/taskflow/internal/models"
	"github.com/AnanyaNagabhushan/taskflow/internal/repository"
)

type ItemService struct {
	repo *repository.ItemRepository
}

func NewItemService(repo *repository.ItemRepository) *ItemService {
	return &ItemService{repo: repo}
}

// CreateItemInput is the request payload for a new checklist item.
type CreateItemInput struct {
	Content string     `json:"content"`
	Status  string     `json:"status"`
	DueDate *time.Time `json:"due_date"`
}

// UpdateItemInput is a partial update; nil fields are left untouched. An
// absent or null due_date keeps the current value; there is no way to clear
// a due date through this payload.
type UpdateItemInput struct {
	Content *string    `json:"content"`
	Status  *string    `json:"status"`
	DueDate *time.Time `json:"due_date"`
}

// Add appends an item to one of the user's tasks.
func (s *ItemService) Add(ctx context.Context, userID, taskID uint, input CreateItemInput) (*models.TaskItem, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	if input.Status == "" {
		input.Status = models.ItemStatusPending
	}
	if !models.ValidItemStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, input.Status)
	}

	item, err := s.repo.Create(ctx, userID, taskID, &repository.ItemInput{
		Content: input.Content,
		Status:  input.Status,
		DueDate: input.DueDate,
	})
	if err != nil {
		return nil, s.mapError(err, "create item")
	}
	return item, nil
}

// List returns all items of one of the user's tasks.
func (s *ItemService) List(ctx context.Context, userID, taskID uint) ([]models.TaskItem, error) {
	items, err := s.repo.ListForTask(ctx, userID, taskID)
	if err != nil {
		return nil, s.mapError(err, "list items")
	}
	if items == nil {
		items = []models.TaskItem{}
	}
	return items, nil
}

// Get returns one item, scoped through the owning task.
func (s *ItemService) Get(ctx context.Context, userID, taskID, itemID uint) (*models.TaskItem, error) {
	item, err := s.repo.GetByID(ctx, userID, taskID, itemID)
	if err != nil {
		return nil, s.mapError(err, "get item")
	}
	return item, nil
}

// Update mutates one item, scoped through the owning task.
func (s *ItemService) Update(ctx context.Context, userID, taskID, itemID uint, input UpdateItemInput) (*models.TaskItem, error) {
	if input.Content != nil {
		trimmed := strings.TrimSpace(*input.Content)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
		}
		input.Content = &trimmed
	}
	if input.Status != nil && !models.ValidItemStatus(*input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *input.Status)
	}

	item, err := s.repo.Update(ctx, userID, taskID, itemID, &repository.ItemUpdateInput{
		Content: input.Content,
		Status:  input.Status,
		DueDate: input.DueDate,
	})
	if err != nil {
		return nil, s.mapError(err, "update item")
	}
	return item, nil
}

// Delete removes one item, scoped through the owning task.
func (s *ItemService) Delete(ctx context.Context, userID, taskID, itemID uint) error {
	if err := s.repo.Delete(ctx, userID, taskID, itemID); err != nil {
		return s.mapError(err, "delete item")
	}
	return nil
}

// BulkUpdate applies action to the caller's items among ids, across all of
// the caller's tasks. Items of other users are skipped; if nothing matches,
// ErrNotFound.
func (s *ItemService) BulkUpdate(ctx context.Context, userID uint, ids []uint, action, status string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: item_ids are required", ErrValidation)
	}

	var (
		matched int64
		err     error
	)
	switch action {
	case BulkActionDelete:
		matched, err = s.repo.BulkDelete(ctx, userID, ids)
	case BulkActionUpdateStatus:
		if status == "" {
			return fmt.Errorf("%w: missing status for bulk update", ErrValidation)
		}
		if !models.ValidItemStatus(status) {
			return fmt.Errorf("%w: invalid status %q", ErrValidation, status)
		}
		matched, err = s.repo.BulkUpdateStatus(ctx, userID, ids, status)
	default:
		return fmt.Errorf("%w: invalid action %q", ErrValidation, action)
	}

	if err != nil {
		return fmt.Errorf("bulk %s items: %w", action, err)
	}
	if matched == 0 {
		return fmt.Errorf("%w: no matching items found", ErrNotFound)
	}
	return nil
}

func (s *ItemService) mapError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: item or task not found", ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
