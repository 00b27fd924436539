package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id        INTEGER PRIMARY KEY,
	name      TEXT    NOT NULL,
	email     TEXT    NOT NULL,
	avatar    TEXT,
	is_active INTEGER NOT NULL DEFAULT 1
);
`

// UserRepo implements ports.UserRepository on a local SQLite file.
type UserRepo struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepo)(nil)

// New opens the database at path and creates the users table if needed.
// Use ":memory:" for a throwaway database.
func New(path string) (*UserRepo, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &UserRepo{db: db}, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	key := toKey(id)

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, avatar, is_active
		FROM users
		WHERE id = ?
	`, key)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.DatabaseError(err)
	}
	return user, nil
}

func (r *UserRepo) Save(ctx context.Context, user *domain.User) error {
	key := toKey(user.ID)

	var avatar sql.NullString
	if user.Avatar != nil {
		avatar = sql.NullString{String: *user.Avatar, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, avatar, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			avatar = excluded.avatar,
			is_active = excluded.is_active
	`, key, user.Name, user.Email, avatar, user.IsActive)
	if err != nil {
		return domain.DatabaseError(err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	key := toKey(id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, key)
	if err != nil {
		return false, domain.DatabaseError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, domain.DatabaseError(err)
	}
	return affected > 0, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, avatar, is_active
		FROM users
		ORDER BY id < 0, id
	`)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, domain.DatabaseError(err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.DatabaseError(err)
	}
	return users, nil
}

// Close releases the database handle.
func (r *UserRepo) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		id     int64
		user   domain.User
		avatar sql.NullString
	)
	if err := s.Scan(&id, &user.Name, &user.Email, &avatar, &user.IsActive); err != nil {
		return nil, err
	}

	user.ID = uint64(id)
	if avatar.Valid {
		user.Avatar = &avatar.String
	}
	return &user, nil
}

// Ids are stored as the same 64 bits in a signed INTEGER column, so ids above
// MaxInt64 come back negative and sort after the rest with "id < 0, id".
func toKey(id uint64) int64 {
	return int64(id)
}
