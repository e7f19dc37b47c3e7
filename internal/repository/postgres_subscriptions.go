package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/example/newspulse-bot/internal/model"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresSubscriptionRepository stores subscriptions in Postgres.
type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(connStr string) (*PostgresSubscriptionRepository, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	r := &PostgresSubscriptionRepository{db: db}
	if err := r.init(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresSubscriptionRepository) init() error {
	_, err := r.db.Exec(`
        CREATE TABLE IF NOT EXISTS subscriptions (
            user_id BIGINT PRIMARY KEY,
            target TEXT NOT NULL,
            deliver_at TEXT NOT NULL,
            tz_offset_sec INTEGER NOT NULL DEFAULT 0
        )`)
	return err
}

func (r *PostgresSubscriptionRepository) Get(ctx context.Context, userID int64) (*model.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, target, deliver_at, tz_offset_sec FROM subscriptions WHERE user_id=$1`, userID)
	var s model.Subscription
	if err := row.Scan(&s.UserID, &s.Target, &s.Time, &s.TZOffsetSec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresSubscriptionRepository) Save(ctx context.Context, sub *model.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO subscriptions (user_id, target, deliver_at, tz_offset_sec)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id) DO UPDATE SET
            target=EXCLUDED.target,
            deliver_at=EXCLUDED.deliver_at,
            tz_offset_sec=EXCLUDED.tz_offset_sec
    `, sub.UserID, sub.Target, sub.Time, sub.TZOffsetSec)
	return err
}

func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id=$1`, userID)
	return err
}

func (r *PostgresSubscriptionRepository) List(ctx context.Context) ([]*model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, target, deliver_at, tz_offset_sec FROM subscriptions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []*model.Subscription
	for rows.Next() {
		var s model.Subscription
		if err := rows.Scan(&s.UserID, &s.Target, &s.Time, &s.TZOffsetSec); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}
