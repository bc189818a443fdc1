package market

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-market-api/internal/postgres"
)

type UserRepo struct{ DB *pgxpool.Pool }

func (r *UserRepo) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := u.Validate(); err != nil {
		return err
	}
	err := postgres.Q(ctx, r.DB).QueryRow(ctx, `
		INSERT INTO users (id, email, hashed_password)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		u.ID, u.Email, u.HashedPassword,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if postgres.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (User, error) {
	return r.get(ctx, `SELECT id, email, hashed_password, created_at, updated_at FROM users WHERE id=$1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.get(ctx, `SELECT id, email, hashed_password, created_at, updated_at FROM users WHERE email=$1`, email)
}

func (r *UserRepo) get(ctx context.Context, query, arg string) (User, error) {
	var u User
	err := postgres.Q(ctx, r.DB).QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.HashedPassword, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (r *UserRepo) Update(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	ct, err := postgres.Q(ctx, r.DB).Exec(ctx, `
		UPDATE users SET email=$2, hashed_password=$3, updated_at=NOW()
		WHERE id=$1`,
		u.ID, u.Email, u.HashedPassword,
	)
	if postgres.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user; owned products and orders go with it (FK cascade).
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	ct, err := postgres.Q(ctx, r.DB).Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
