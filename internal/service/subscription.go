package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/newspulse-bot/internal/model"
	"github.com/example/newspulse-bot/internal/repository"
)

// ErrBadTime is returned for delivery times that are not valid "HH:MM".
var ErrBadTime = errors.New("invalid time, expected HH:MM")

// SubscriptionService manages daily delivery subscriptions. One
// subscription per user; registering again replaces the previous one.
type SubscriptionService struct {
	repo repository.SubscriptionRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

// Register validates the delivery time and stores the subscription.
func (s *SubscriptionService) Register(ctx context.Context, userID int64, target, at string, tzOffsetSec int) (*model.Subscription, error) {
	normalized, err := NormalizeTime(at)
	if err != nil {
		return nil, err
	}
	sub := &model.Subscription{
		UserID:      userID,
		Target:      strings.TrimSpace(target),
		Time:        normalized,
		TZOffsetSec: tzOffsetSec,
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe removes the user's subscription.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}

// Get returns the user's subscription or os.ErrNotExist.
func (s *SubscriptionService) Get(ctx context.Context, userID int64) (*model.Subscription, error) {
	return s.repo.Get(ctx, userID)
}

// NormalizeTime converts inputs like "7:5" to canonical "07:05".
func NormalizeTime(v string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(v), ":", 2)
	if len(parts) != 2 {
		return "", ErrBadTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", ErrBadTime
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", ErrBadTime
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return "", ErrBadTime
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}
