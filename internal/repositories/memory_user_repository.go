package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"accounts_backend/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository - хранилище в памяти для тестов и режима database.driver=memory.
// Проверка уникальности и запись выполняются под одной блокировкой.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	seq   map[string]uint64
	next  uint64
	now   func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
		seq:   make(map[string]uint64),
		now:   time.Now,
	}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByNickname(_ context.Context, nickname string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Nickname == nickname })
}

func (r *MemoryUserRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(&u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, exists := r.users[user.ID]; exists {
		return ErrUserAlreadyExists
	}
	if err := r.checkUniqueLocked(user); err != nil {
		return err
	}

	now := r.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = *user
	r.next++
	r.seq[user.ID] = r.next
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if err := r.checkUniqueLocked(user); err != nil {
		return err
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.now()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, userID)
	delete(r.seq, userID)
	return nil
}

func (r *MemoryUserRepository) FindAll(_ context.Context, limit, offset int) ([]models.User, error) {
	r.mu.RLock()
	all := make([]models.User, 0, len(r.users))
	order := make(map[string]uint64, len(r.seq))
	for id, u := range r.users {
		all = append(all, u)
		order[id] = r.seq[id]
	}
	r.mu.RUnlock()

	// одинаковый created_at разрешаем порядком вставки
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return order[all[i].ID] < order[all[j].ID]
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []models.User{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *MemoryUserRepository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *MemoryUserRepository) RecordLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.FailedLoginAttempts = 0
	u.LastLoginAt = &at
	u.UpdatedAt = r.now()
	r.users[userID] = u
	return nil
}

func (r *MemoryUserRepository) RecordFailedLogin(_ context.Context, userID string, maxAttempts int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return false, ErrUserNotFound
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		u.IsLocked = true
	}
	r.users[userID] = u
	return u.IsLocked, nil
}

func (r *MemoryUserRepository) checkUniqueLocked(user *models.User) error {
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return ErrUserAlreadyExists
		}
		if u.Nickname == user.Nickname {
			return ErrNicknameTaken
		}
	}
	return nil
}
