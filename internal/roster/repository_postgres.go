package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Register a child under a guardian
// --------------------------------------------------
func (r *PostgresRepository) CreateChild(ctx context.Context, child *Child) error {
	if child.ID == "" {
		child.ID = uuid.New().String()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO children (id, parent_id, name, grade, allergies)
		VALUES ($1, $2, $3, $4, $5)
	`,
		child.ID,
		child.GuardianID,
		child.Name,
		child.Grade,
		child.Allergies.Strings(),
	)
	return err
}

// --------------------------------------------------
// Children of one guardian
// --------------------------------------------------
func (r *PostgresRepository) ListChildren(
	ctx context.Context,
	guardianID string,
) ([]Child, error) {

	rows, err := r.db.Query(ctx, `
		SELECT id::text, name, grade, parent_id::text, allergies
		FROM children
		WHERE parent_id = $1
		ORDER BY name
	`, guardianID)
	if err != nil {
		return nil, err
	}

	return scanChildren(rows)
}

func (r *PostgresRepository) GetChild(
	ctx context.Context,
	childID string,
) (*Child, error) {

	rows, err := r.db.Query(ctx, `
		SELECT id::text, name, grade, parent_id::text, allergies
		FROM children
		WHERE id = $1
	`, childID)
	if err != nil {
		return nil, err
	}

	children, err := scanChildren(rows)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, ErrChildNotFound
	}
	return &children[0], nil
}

// --------------------------------------------------
// Full roster (analytics)
// --------------------------------------------------
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Child, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, name, grade, parent_id::text, allergies
		FROM children
		ORDER BY grade, name
	`)
	if err != nil {
		return nil, err
	}

	return scanChildren(rows)
}

func (r *PostgresRepository) ListProfiles(
	ctx context.Context,
	userIDs []string,
) ([]Profile, error) {

	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT user_id::text, full_name, school_code
		FROM profiles
		WHERE user_id::text = ANY($1)
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.UserID, &p.FullName, &p.SchoolCode); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

func scanChildren(rows pgx.Rows) ([]Child, error) {
	defer rows.Close()

	var children []Child
	for rows.Next() {
		var (
			c         Child
			allergies []string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Grade, &c.GuardianID, &allergies); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrChildNotFound
			}
			return nil, err
		}

		set, err := menu.ParseAllergens(allergies)
		if err != nil {
			return nil, fmt.Errorf("child %s: %w", c.ID, err)
		}
		c.Allergies = set

		children = append(children, c)
	}

	return children, rows.Err()
}
