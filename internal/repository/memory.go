package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

// MemoryUserRepository keeps users in process memory.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]model.User
}

var _ UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository returns an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byEmail: make(map[string]model.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byEmail[user.Email] = *user
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

// MemoryTaskRepository keeps tasks in process memory.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]model.Task
}

var _ TaskRepository = (*MemoryTaskRepository)(nil)

// NewMemoryTaskRepository returns an empty in-memory task store.
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[uuid.UUID]model.Task)}
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &task, nil
}

func (r *MemoryTaskRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Task, error) {
	r.mu.RLock()
	tasks := make([]model.Task, 0)
	for _, t := range r.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Title = task.Title
	existing.Completed = task.Completed
	r.tasks[task.ID] = existing
	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.tasks, id)
	return nil
}
