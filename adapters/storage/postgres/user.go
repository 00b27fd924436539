package postgres

import (
	"context"
	"errors"

	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

var _ ports.UserRepository = (*UserRepo)(nil)

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		pool: pool,
	}
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	key := toKey(id)

	query := `SELECT id, name, email, avatar, is_active 
	          FROM users 
	          WHERE id = $1`

	var (
		user  domain.User
		rowID int64
	)
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&rowID,
		&user.Name,
		&user.Email,
		&user.Avatar,
		&user.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.DatabaseError(err)
	}

	user.ID = uint64(rowID)
	return &user, nil
}

func (r *UserRepo) Save(ctx context.Context, user *domain.User) error {
	key := toKey(user.ID)

	query := `INSERT INTO users (id, name, email, avatar, is_active) 
	          VALUES ($1, $2, $3, $4, $5) 
	          ON CONFLICT (id) DO UPDATE 
	          SET name = EXCLUDED.name, email = EXCLUDED.email, avatar = EXCLUDED.avatar, is_active = EXCLUDED.is_active`

	if _, err := r.pool.Exec(ctx, query,
		key,
		user.Name,
		user.Email,
		user.Avatar,
		user.IsActive,
	); err != nil {
		return domain.DatabaseError(err)
	}

	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	key := toKey(id)

	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, key)
	if err != nil {
		return false, domain.DatabaseError(err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, name, email, avatar, is_active 
	          FROM users 
	          ORDER BY id < 0, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var (
			user  domain.User
			rowID int64
		)
		if err := rows.Scan(&rowID, &user.Name, &user.Email, &user.Avatar, &user.IsActive); err != nil {
			return nil, domain.DatabaseError(err)
		}
		user.ID = uint64(rowID)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.DatabaseError(err)
	}

	return users, nil
}

func (r *UserRepo) Close() error {
	r.pool.Close()
	return nil
}

// Ids are stored as the same 64 bits in a signed BIGINT column, so ids above
// MaxInt64 come back negative and sort after the rest with "id < 0, id".
func toKey(id uint64) int64 {
	return int64(id)
}
