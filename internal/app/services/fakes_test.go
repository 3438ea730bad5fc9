package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/notify"
)

// fakeNotifier records dispatched events for assertions
type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (f *fakeNotifier) Notify(event notify.Event, recipients ...notify.Recipient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// fakeCache stores entries in memory and records invalidated tags
type fakeCache struct {
	mu      sync.Mutex
	tags    []string
	entries map[string][]byte
	keyTags map[string][]string
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, tags ...string) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries == nil {
		f.entries = make(map[string][]byte)
		f.keyTags = make(map[string][]string)
	}
	f.entries[key] = data
	f.keyTags[key] = tags
}

func (f *fakeCache) Invalidate(ctx context.Context, tags ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, tags...)
	for key, keyTags := range f.keyTags {
		for _, tag := range tags {
			for _, kt := range keyTags {
				if kt == tag {
					delete(f.entries, key)
					delete(f.keyTags, key)
				}
			}
		}
	}
}

// fakeUserStore serves users from a map
type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}
