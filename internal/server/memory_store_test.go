package server

import (
	"context"
	"sync"
	"time"

	"blogapi/internal/models"
	"blogapi/internal/repository"
)

// memoryPosts is an in-process PostRepository used by the router tests.
type memoryPosts struct {
	mu     sync.Mutex
	posts  []models.Post
	clock  time.Time
	writes int
}

func newMemoryPosts() *memoryPosts {
	return &memoryPosts{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memoryPosts) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryPosts) Create(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for _, existing := range m.posts {
		if existing.Slug == post.Slug || existing.ID == post.ID {
			return repository.ErrConflict
		}
	}
	now := m.tick()
	post.CreatedAt, post.UpdatedAt = now, now
	m.posts = append(m.posts, *post)
	return nil
}

func (m *memoryPosts) List(_ context.Context, filter repository.PostFilter) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, 0, filter.Limit)
	skipped := 0
	for _, post := range m.posts {
		if filter.Category != "" && post.Category != filter.Category {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		if len(out) == filter.Limit {
			break
		}
		out = append(out, post)
	}
	return out, nil
}

func (m *memoryPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, post := range m.posts {
		if post.ID == id {
			found := post
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryPosts) Update(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for i := range m.posts {
		if m.posts[i].ID != post.ID {
			continue
		}
		stored := &m.posts[i]
		stored.Title, stored.Content, stored.Category, stored.Slug = post.Title, post.Content, post.Category, post.Slug
		stored.UpdatedAt = m.tick()
		*post = *stored
		return nil
	}
	return repository.ErrNotFound
}

func (m *memoryPosts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryPosts) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.posts)), nil
}

func (m *memoryPosts) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]models.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repository.ErrConflict
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (m *memoryUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}
