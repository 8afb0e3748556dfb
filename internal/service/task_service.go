package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// TaskService handles ownership-scoped task operations.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, title string) (*model.Task, error)
	ListByUser(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, taskID, requesterID uuid.UUID, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, taskID, requesterID uuid.UUID) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// Create stores a new, not yet completed task for ownerID.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, title string) (*model.Task, error) {
	task := &model.Task{
		ID:        uuid.New(),
		Title:     title,
		Completed: false,
		UserID:    ownerID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// ListByUser returns only the tasks owned by ownerID.
func (s *taskService) ListByUser(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the present fields of patch to a task owned by requesterID.
func (s *taskService) Update(ctx context.Context, taskID, requesterID uuid.UUID, patch model.TaskPatch) (*model.Task, error) {
	task, err := s.owned(ctx, taskID, requesterID)
	if err != nil {
		return nil, err
	}

	patch.Apply(task)
	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a task owned by requesterID.
func (s *taskService) Delete(ctx context.Context, taskID, requesterID uuid.UUID) error {
	if _, err := s.owned(ctx, taskID, requesterID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// owned loads a task and checks existence before ownership.
func (s *taskService) owned(ctx context.Context, taskID, requesterID uuid.UUID) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task.UserID != requesterID {
		return nil, apperrors.ErrForbidden
	}
	return task, nil
}
