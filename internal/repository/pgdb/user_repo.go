package pgdb

import (
	"context"
	"errors"

	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/internal/repository/pgdb/converter"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const uniqueViolationCode = "23505"

// UserRepo реализует репозиторий пользователей поверх PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет нового пользователя.
// Дубликат email транслируется в e.ErrUserExists.
func (u *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, password_hash, is_active, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, is_active, is_admin, created_at, updated_at;
	`

	var model converter.UserModel
	err := u.pool.QueryRow(ctx, query, user.Email, user.PasswordHash, user.IsActive, user.IsAdmin).
		Scan(
			&model.ID, &model.Email, &model.PasswordHash,
			&model.IsActive, &model.IsAdmin, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserExists)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}

func (u *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, is_active, is_admin, created_at, updated_at
		FROM users
		WHERE email = $1;
	`

	return u.scanUser(u.pool.QueryRow(ctx, query, email))
}

func (u *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, is_active, is_admin, created_at, updated_at
		FROM users
		WHERE id = $1;
	`

	return u.scanUser(u.pool.QueryRow(ctx, query, id))
}

func (u *UserRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var model converter.UserModel
	err := row.Scan(
		&model.ID, &model.Email, &model.PasswordHash,
		&model.IsActive, &model.IsAdmin, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}
