package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chefbot/src/errs"
	"chefbot/src/model"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// MemoStore is the durable question/answer memo and user profile store.
// Records are append-only; questions are matched byte for byte.
type MemoStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// OpenMemoStore opens the database described by config and creates the schema if needed
func OpenMemoStore(ctx context.Context, config model.StoreConfig) (*MemoStore, error) {
	d, err := dialectFor(config.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", d.driver, err)
	}

	maxOpen := config.MaxOpenConns
	if d.driver == "sqlite" {
		// sqlite allows a single writer
		maxOpen = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s is not reachable: %w", d.driver, err)
	}

	store := &MemoStore{db: db, dialect: d, now: time.Now}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the memo tables when they do not exist
func (s *MemoStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate memo schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database
func (s *MemoStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *MemoStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Lookup returns the first answer stored for exactly this question by this user
func (s *MemoStore) Lookup(ctx context.Context, userID, question string) (string, bool, error) {
	var answer string
	err := s.db.QueryRowContext(ctx, s.dialect.lookupSQL, userID, question).Scan(&answer)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, errs.Wrap(errs.ErrMemoLookup, "storage.Lookup", err)
	}
	return answer, true, nil
}

// Store appends a question/answer record, creating the user row if needed.
// It does not check for an existing record.
func (s *MemoStore) Store(ctx context.Context, userID, question, answer string) error {
	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.ErrMemoStore, "storage.Store", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.dialect.rebind(
		`INSERT INTO chat_users (user_id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`), userID, now, now); err != nil {
		return errs.Wrap(errs.ErrMemoStore, "storage.Store", err)
	}

	if _, err := tx.ExecContext(ctx, s.dialect.rebind(
		`INSERT INTO chat_memos (user_id, question, answer, asked_at) VALUES (?, ?, ?, ?)`),
		userID, question, answer, now); err != nil {
		return errs.Wrap(errs.ErrMemoStore, "storage.Store", err)
	}

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrMemoStore, "storage.Store", err)
	}
	return nil
}

// Name returns the display name registered for the user
func (s *MemoStore) Name(ctx context.Context, userID string) (string, bool, error) {
	var name sql.NullString
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(
		`SELECT name FROM chat_users WHERE user_id = ?`), userID).Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, errs.Wrap(errs.ErrMemoLookup, "storage.Name", err)
	}
	if !name.Valid || name.String == "" {
		return "", false, nil
	}
	return name.String, true, nil
}

// SetName creates the user if absent and overwrites the display name
func (s *MemoStore) SetName(ctx context.Context, userID, name string) error {
	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(
		`INSERT INTO chat_users (user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`),
		userID, name, now, now)
	if err != nil {
		return errs.Wrap(errs.ErrMemoStore, "storage.SetName", err)
	}
	return nil
}

// History returns the user's most recent records, newest first
func (s *MemoStore) History(ctx context.Context, userID string, limit int) ([]model.MemoRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT user_id, question, answer, asked_at FROM chat_memos
		WHERE user_id = ? ORDER BY id DESC LIMIT ?`), userID, limit)
	if err != nil {
		return nil, errs.Wrap(errs.ErrMemoLookup, "storage.History", err)
	}
	defer rows.Close()

	var records []model.MemoRecord
	for rows.Next() {
		var r model.MemoRecord
		if err := rows.Scan(&r.UserID, &r.Question, &r.Answer, &r.AskedAt); err != nil {
			return nil, errs.Wrap(errs.ErrMemoLookup, "storage.History", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrMemoLookup, "storage.History", err)
	}
	return records, nil
}
