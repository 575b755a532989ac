package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mvalle/auth-api/internal/core/domain"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(_ context.Context, skip, limit int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type memBlacklist struct {
	mu      sync.Mutex
	entries []domain.BlacklistedToken
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{}
}

func (b *memBlacklist) Add(_ context.Context, token *domain.BlacklistedToken) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	token.ID = int64(len(b.entries) + 1)
	token.CreatedAt = time.Now()
	b.entries = append(b.entries, *token)
	return nil
}

func (b *memBlacklist) IsBlacklisted(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range b.entries {
		if e.Token == token && e.ExpiresAt.After(time.Now()) {
			return true, nil
		}
	}
	return false, nil
}

func (b *memBlacklist) DeleteExpired(_ context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var kept []domain.BlacklistedToken
	var purged int64
	for _, e := range b.entries {
		if e.ExpiresAt.After(time.Now()) {
			kept = append(kept, e)
		} else {
			purged++
		}
	}
	b.entries = kept
	return purged, nil
}

func (b *memBlacklist) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

type sentMail struct {
	to       string
	fullName string
	token    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendPasswordReset(to, fullName, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, fullName: fullName, token: token})
	return nil
}

func (m *fakeMailer) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].token
}
