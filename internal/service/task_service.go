// internal/service/task_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AnanyaNagabhushan/taskflow/internal/models"
	"github.com/AnanyaNagabhushan/taskflow/internal/repository"
)

// Bulk actions accepted by BulkUpdate.
const (
	BulkActionDelete       = "delete"
	BulkActionUpdateStatus = "update_status"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type TaskService struct {
	repo  *repository.TaskRepository
	stats *repository.StatsRepository
}

func NewTaskService(repo *repository.TaskRepository, stats *repository.StatsRepository) *TaskService {
	return &TaskService{repo: repo, stats: stats}
}

// CreateTaskInput is the request payload for a new task. Status and
// Priority default to pending/medium when empty.
type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// UpdateTaskInput is a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Completed   *bool   `json:"completed"`
}

// ListTasksParams narrows and orders a listing.
type ListTasksParams struct {
	Page      int
	PerPage   int
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks   []models.Task `json:"tasks"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// Create inserts a task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID uint, input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, input.Status)
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, input.Priority)
	}

	return s.repo.Create(ctx, userID, &repository.TaskInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
	})
}

// List returns one page of the user's tasks.
func (s *TaskService) List(ctx context.Context, userID uint, params ListTasksParams) (*TaskPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage <= 0 {
		params.PerPage = defaultPerPage
	}
	if params.PerPage > maxPerPage {
		params.PerPage = maxPerPage
	}

	filter := repository.ListFilter{
		Search:    params.Search,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
		Limit:     params.PerPage,
		Offset:    (params.Page - 1) * params.PerPage,
	}

	if params.Status != "" {
		if !models.ValidTaskStatus(params.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, params.Status)
		}
		filter.Status = &params.Status
	}

	tasks, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return &TaskPage{
		Tasks:   tasks,
		Total:   total,
		Page:    params.Page,
		PerPage: params.PerPage,
	}, nil
}

// Get returns the task if userID owns it; otherwise ErrNotFound, including
// for tasks owned by someone else.
func (s *TaskService) Get(ctx context.Context, userID, id uint) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task not found", ErrNotFound)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Update mutates an owned task.
func (s *TaskService) Update(ctx context.Context, userID, id uint, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		input.Title = &trimmed
	}
	if input.Status != nil && !models.ValidTaskStatus(*input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *input.Status)
	}
	if input.Priority != nil && !models.ValidPriority(*input.Priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, *input.Priority)
	}

	task, err := s.repo.Update(ctx, userID, id, &repository.TaskUpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Completed:   input.Completed,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task not found", ErrNotFound)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes an owned task and its items.
func (s *TaskService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: task not found", ErrNotFound)
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// BulkUpdate applies action to the caller's tasks among ids. Tasks owned
// by other users are skipped; if nothing matches, ErrNotFound.
func (s *TaskService) BulkUpdate(ctx context.Context, userID uint, ids []uint, action, status string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: task_ids are required", ErrValidation)
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
		if !models.ValidTaskStatus(status) {
			return fmt.Errorf("%w: invalid status %q", ErrValidation, status)
		}
		matched, err = s.repo.BulkUpdateStatus(ctx, userID, ids, status)
	default:
		return fmt.Errorf("%w: invalid action %q", ErrValidation, action)
	}

	if err != nil {
		return fmt.Errorf("bulk %s: %w", action, err)
	}
	if matched == 0 {
		return fmt.Errorf("%w: no matching tasks found", ErrNotFound)
	}
	return nil
}

// Summary returns per-status task counts for the user.
func (s *TaskService) Summary(ctx context.Context, userID uint) ([]repository.StatusCount, error) {
	counts, err := s.stats.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("task summary: %w", err)
	}
	if counts == nil {
		counts = []repository.StatusCount{}
	}
	return counts, nil
}
