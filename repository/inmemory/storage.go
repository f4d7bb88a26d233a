package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// Map-backed repository implementations. They back the usecase and handler
// test suites and local runs without postgres/redis.

type UserStorage struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStorage() *UserStorage {
	return &UserStorage{users: make(map[string]domain.User)}
}

func (s *UserStorage) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *UserStorage) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStorage) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *UserStorage) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.Email = user.Email
	stored.FullName = user.FullName
	stored.IsActive = user.IsActive
	stored.UpdatedAt = time.Now()
	s.users[user.ID] = stored
	*user = stored
	return nil
}

var _ repository.UserRepository = (*UserStorage)(nil)

type TaskStorage struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	seq   int64
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{tasks: make(map[string]domain.Task)}
}

func (s *TaskStorage) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (s *TaskStorage) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Task
	for _, task := range s.tasks {
		if task.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		matched = append(matched, task)
	}

	// newest first, mirroring the postgres repository
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *TaskStorage) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	s.seq++
	// monotonic timestamps keep list ordering deterministic in tests
	now := time.Now().Add(time.Duration(s.seq) * time.Microsecond)
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = *task
	return task, nil
}

func (s *TaskStorage) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	stored.Title = task.Title
	stored.Description = task.Description
	stored.Priority = task.Priority
	stored.Status = task.Status
	stored.DueDate = task.DueDate
	stored.UpdatedAt = time.Now()
	s.tasks[task.ID] = stored
	*task = stored
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

var _ repository.TaskRepository = (*TaskStorage)(nil)

type Denylist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Time)}
}

func (s *Denylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = until
	return nil
}

func (s *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	until, ok := s.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}

var _ repository.TokenDenylist = (*Denylist)(nil)
