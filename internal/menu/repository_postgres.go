package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `
	id::text,
	menu_date,
	category,
	name,
	description,
	price::text,
	allergens,
	school_code
`

// --------------------------------------------------
// LIST CATALOG FOR A DATE RANGE
// --------------------------------------------------
func (r *PostgresRepository) ListCatalog(
	ctx context.Context,
	rng calendar.Range,
) (Catalog, error) {

	rows, err := r.db.Query(ctx, `
		SELECT`+itemColumns+`
		FROM menu_items
		WHERE menu_date BETWEEN $1 AND $2
		ORDER BY menu_date, created_at
	`, rng.From.Time(), rng.To.Time())
	if err != nil {
		return nil, err
	}

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}

	return GroupByDay(items), nil
}

// --------------------------------------------------
// REPLACE DAY (ATOMIC)
// --------------------------------------------------
func (r *PostgresRepository) ReplaceDay(
	ctx context.Context,
	date calendar.Date,
	items []Item,
) error {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM menu_items
		WHERE menu_date = $1
	`, date.Time()); err != nil {
		return err
	}

	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO menu_items (
				id,
				menu_date,
				category,
				name,
				description,
				price,
				allergens,
				school_code
			)
			VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
		`,
			it.ID,
			date.Time(),
			string(it.Slot),
			it.Name,
			it.Description,
			it.Price.String(),
			it.Allergens.Strings(),
			it.SchoolCode,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// --------------------------------------------------
// SEARCH BY NAME (DISH SUGGESTIONS)
// --------------------------------------------------
func (r *PostgresRepository) SearchByName(
	ctx context.Context,
	query string,
	limit int,
) ([]Item, error) {

	rows, err := r.db.Query(ctx, `
		SELECT`+itemColumns+`
		FROM menu_items
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}

	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()

	var items []Item

	for rows.Next() {
		var (
			it        Item
			menuDate  time.Time
			category  string
			price     string
			allergens []string
		)

		if err := rows.Scan(
			&it.ID,
			&menuDate,
			&category,
			&it.Name,
			&it.Description,
			&price,
			&allergens,
			&it.SchoolCode,
		); err != nil {
			return nil, err
		}

		slot, err := ParseSlot(category)
		if err != nil {
			return nil, fmt.Errorf("menu item %s: %w", it.ID, err)
		}

		it.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("menu item %s: price: %w", it.ID, err)
		}

		it.Allergens, err = ParseAllergens(allergens)
		if err != nil {
			return nil, fmt.Errorf("menu item %s: %w", it.ID, err)
		}

		it.Slot = slot
		it.Date = calendar.FromTime(menuDate)
		items = append(items, it)
	}

	return items, rows.Err()
}
