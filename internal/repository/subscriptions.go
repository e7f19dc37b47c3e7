package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/example/newspulse-bot/internal/model"
)

// SubscriptionRepository abstracts persistence of delivery subscriptions.
// One record per user; Save replaces any previous record.
type SubscriptionRepository interface {
	Get(ctx context.Context, userID int64) (*model.Subscription, error)
	Save(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]*model.Subscription, error)
}

// FileSubscriptionRepository stores subscriptions in a JSON file.
type FileSubscriptionRepository struct {
	path string
	mu   sync.Mutex
	data map[int64]*model.Subscription
}

// NewFileSubscriptionRepository loads subscriptions from the given JSON
// file or starts empty if it does not exist yet.
func NewFileSubscriptionRepository(path string) (*FileSubscriptionRepository, error) {
	r := &FileSubscriptionRepository{path: path, data: map[int64]*model.Subscription{}}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileSubscriptionRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.data = map[int64]*model.Subscription{}
			return nil
		}
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(&r.data)
}

// saveLocked writes the in-memory data back to disk.
func (r *FileSubscriptionRepository) saveLocked() error {
	file, err := os.Create(r.path)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(r.data)
}

// Get retrieves the subscription for a user or returns os.ErrNotExist.
func (r *FileSubscriptionRepository) Get(ctx context.Context, userID int64) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.data[userID]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, os.ErrNotExist
}

// Save persists a subscription, replacing a previous one for the user.
func (r *FileSubscriptionRepository) Save(ctx context.Context, sub *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *sub
	r.data[sub.UserID] = &copy
	return r.saveLocked()
}

// Delete removes the subscription for a user.
func (r *FileSubscriptionRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, userID)
	return r.saveLocked()
}

// List returns all stored subscriptions.
func (r *FileSubscriptionRepository) List(ctx context.Context) ([]*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*model.Subscription, 0, len(r.data))
	for _, s := range r.data {
		copy := *s
		res = append(res, &copy)
	}
	return res, nil
}
