package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/eyeway/uxlens/internal/domain/users"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users
  (id, email, name, password_hash, age, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  name=EXCLUDED.name,
  password_hash=EXCLUDED.password_hash,
  age=EXCLUDED.age,
  status=EXCLUDED.status,
  updated_at=EXCLUDED.updated_at;
`
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := u.UpdatedAt
	if updated.IsZero() {
		updated = created
	}
	var age any
	if u.Age > 0 {
		age = u.Age
	}
	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Email, u.Name, u.PasswordHash, age, u.Status, created, updated,
	)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id, email, name, password_hash, age, status, created_at, updated_at
FROM users WHERE email=$1 LIMIT 1;`
	return r.findOne(ctx, q, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id, email, name, password_hash, age, status, created_at, updated_at
FROM users WHERE id=$1 LIMIT 1;`
	return r.findOne(ctx, q, id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM users WHERE id=$1;`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	var (
		u   domain.User
		age sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &age, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Age = int(age.Int64)
	return &u, nil
}
