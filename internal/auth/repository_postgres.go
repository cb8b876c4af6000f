package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Save inserts the account and its profile in one transaction.
func (r *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	// Generate UUID if not already set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO users (id, email, password, role)
		VALUES ($1, LOWER($2), $3, $4)
	`,
		user.ID, user.Email, user.Password, user.Role,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO profiles (user_id, full_name, school_code)
		VALUES ($1, $2, $3)
	`,
		user.ID, user.FullName, user.SchoolCode,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = LOWER($1))
	`, email).Scan(&exists)
	return exists, err
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := r.db.QueryRow(ctx, `
		SELECT
			u.id,
			COALESCE(p.full_name, ''),
			u.email,
			u.password,
			u.role,
			COALESCE(p.school_code, '')
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.email = LOWER($1)
	`, email).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.SchoolCode,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
