package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lborres/jokes/core"
)

var fakeEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeStorage is a test-only fake implementing core.Storage.
// It keeps users and jokes in maps and exposes error fields for behavior injection.
type FakeStorage struct {
	mu    sync.RWMutex
	users map[string]*core.User
	jokes map[string]*core.Joke
	seq   int

	createUserErr error
	getUserErr    error
	createJokeErr error
	getJokeErr    error
	deleteJokeErr error
	pingErr       error

	// Writes counts successful inserts and deletes.
	Writes int
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		users: make(map[string]*core.User),
		jokes: make(map[string]*core.Joke),
	}
}

func (f *FakeStorage) CreateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createUserErr != nil {
		return f.createUserErr
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return core.ErrUserExists
		}
	}

	f.users[u.ID] = u
	f.Writes++
	return nil
}

func (f *FakeStorage) GetUserByID(_ context.Context, id string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	if u, ok := f.users[id]; ok {
		return u.Identity(), nil
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) GetUserByUsername(_ context.Context, username string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) CreateJoke(_ context.Context, j *core.Joke) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createJokeErr != nil {
		return f.createJokeErr
	}

	// creation order stands in for created_at
	f.seq++
	if j.CreatedAt.IsZero() {
		j.CreatedAt = fakeEpoch.Add(time.Duration(f.seq) * time.Second)
	}
	f.jokes[j.ID] = j
	f.Writes++
	return nil
}

func (f *FakeStorage) GetJokeByID(_ context.Context, id string) (*core.Joke, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getJokeErr != nil {
		return nil, f.getJokeErr
	}
	if j, ok := f.jokes[id]; ok {
		return j, nil
	}
	return nil, core.ErrJokeNotFound
}

func (f *FakeStorage) CountJokes(_ context.Context) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getJokeErr != nil {
		return 0, f.getJokeErr
	}
	return len(f.jokes), nil
}

func (f *FakeStorage) ListJokes(_ context.Context, limit, offset int) ([]*core.Joke, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getJokeErr != nil {
		return nil, f.getJokeErr
	}

	all := make([]*core.Joke, 0, len(f.jokes))
	for _, j := range f.jokes {
		all = append(all, j)
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].CreatedAt.Equal(all[b].CreatedAt) {
			return strings.Compare(all[a].ID, all[b].ID) < 0
		}
		return all[a].CreatedAt.After(all[b].CreatedAt)
	})

	if offset >= len(all) {
		return []*core.Joke{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *FakeStorage) DeleteJoke(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteJokeErr != nil {
		return f.deleteJokeErr
	}
	if _, ok := f.jokes[id]; !ok {
		return core.ErrJokeNotFound
	}
	delete(f.jokes, id)
	f.Writes++
	return nil
}

func (f *FakeStorage) Ping(context.Context) error {
	return f.pingErr
}

// Test helper methods
func (f *FakeStorage) SetGetUserError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getUserErr = err
}

func (f *FakeStorage) SetCreateUserError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createUserErr = err
}

func (f *FakeStorage) SetGetJokeError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getJokeErr = err
}

func (f *FakeStorage) SetCreateJokeError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createJokeErr = err
}

func (f *FakeStorage) SetPingError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

// PutUser seeds a user without counting it as a write.
func (f *FakeStorage) PutUser(u *core.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

// RemoveUser deletes a user as if the row had been dropped out of band.
func (f *FakeStorage) RemoveUser(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

// PutJoke seeds a joke without counting it as a write.
func (f *FakeStorage) PutJoke(j *core.Joke) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jokes[j.ID] = j
}

func (f *FakeStorage) HasJoke(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.jokes[id]
	return ok
}

func (f *FakeStorage) WriteCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Writes
}

// FakeCache is a test-only fake implementing core.UserCache.
type FakeCache struct {
	cache  map[string]*core.User
	mu     sync.RWMutex
	getErr error
	setErr error
	hits   int
	misses int
}

func NewFakeCache() *FakeCache {
	return &FakeCache{
		cache: make(map[string]*core.User),
	}
}

func (f *FakeCache) Get(userID string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	u, ok := f.cache[userID]
	if !ok {
		f.misses++
		return nil, core.ErrCacheNotFound
	}

	f.hits++
	return u, nil
}

func (f *FakeCache) Set(userID string, user *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}

	f.cache[userID] = user
	return nil
}

func (f *FakeCache) Delete(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cache, userID)
	return nil
}

func (f *FakeCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]*core.User)
	return nil
}

func (f *FakeCache) Stats() core.CacheStats {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return core.CacheStats{
		Hits:   int64(f.hits),
		Misses: int64(f.misses),
		Size:   len(f.cache),
	}
}

func (f *FakeCache) SetGetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

func (f *FakeCache) SetSetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}

func (f *FakeCache) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}

// FakeHasher is a reversible PasswordHandler that keeps tests fast.
type FakeHasher struct {
	mu      sync.Mutex
	counter int
	hashErr error
}

func (h *FakeHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hashErr != nil {
		return "", h.hashErr
	}
	h.counter++
	return "fake$" + strings.Repeat("s", h.counter) + "$" + password, nil
}

func (h *FakeHasher) Verify(password, digest string) (bool, error) {
	parts := strings.SplitN(digest, "$", 3)
	if len(parts) != 3 || parts[0] != "fake" {
		return false, nil
	}
	return parts[2] == password, nil
}

func (h *FakeHasher) SetHashError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hashErr = err
}
