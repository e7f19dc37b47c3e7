package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/newspulse-bot/internal/model"
)

func TestFileSubscriptionRepository_CRUD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subs.json")
	repo, err := NewFileSubscriptionRepository(path)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	ctx := context.Background()

	s := &model.Subscription{UserID: 42, Target: "general", Time: "08:30", TZOffsetSec: 3600}
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Target != "general" || got.Time != "08:30" || got.TZOffsetSec != 3600 {
		t.Fatalf("unexpected data: %#v", got)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list: %v, %d records", err, len(all))
	}

	if err := repo.Delete(ctx, 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, 42); !os.IsNotExist(err) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestFileSubscriptionRepository_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subs.json")
	ctx := context.Background()

	repo, err := NewFileSubscriptionRepository(path)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := repo.Save(ctx, &model.Subscription{UserID: 7, Target: "sports", Time: "19:00"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// a fresh repo on the same path must see the record
	reopened, err := NewFileSubscriptionRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if got.Target != "sports" || got.Time != "19:00" {
		t.Fatalf("unexpected data after reload: %#v", got)
	}
}

func TestFileSubscriptionRepository_SaveReplaces(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileSubscriptionRepository(filepath.Join(dir, "subs.json"))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	ctx := context.Background()

	repo.Save(ctx, &model.Subscription{UserID: 1, Target: "general", Time: "08:00"})
	repo.Save(ctx, &model.Subscription{UserID: 1, Target: "auto", Time: "09:15"})

	got, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Target != "auto" || got.Time != "09:15" {
		t.Fatalf("expected last write to win, got %#v", got)
	}
}
