package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
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

const orderColumns = `
	child_id::text,
	meal_date,
	meal_type,
	meal_name,
	school_code
`

// --------------------------------------------------
// Orders of one child for one day
// --------------------------------------------------
func (r *PostgresRepository) ListForDay(
	ctx context.Context,
	childID string,
	date calendar.Date,
) ([]CommittedOrder, error) {

	rows, err := r.db.Query(ctx, `
		SELECT`+orderColumns+`
		FROM meal_orders
		WHERE child_id = $1
		  AND meal_date = $2
		ORDER BY meal_type, position
	`, childID, date.Time())
	if err != nil {
		return nil, err
	}

	return scanOrders(rows)
}

// --------------------------------------------------
// All orders in a date range (analytics)
// --------------------------------------------------
func (r *PostgresRepository) ListRange(
	ctx context.Context,
	rng calendar.Range,
) ([]CommittedOrder, error) {

	rows, err := r.db.Query(ctx, `
		SELECT`+orderColumns+`
		FROM meal_orders
		WHERE meal_date BETWEEN $1 AND $2
		ORDER BY meal_date, created_at, position
	`, rng.From.Time(), rng.To.Time())
	if err != nil {
		return nil, err
	}

	return scanOrders(rows)
}

func (r *PostgresRepository) ListForChildren(
	ctx context.Context,
	childIDs []string,
	rng calendar.Range,
) ([]CommittedOrder, error) {

	if len(childIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT`+orderColumns+`
		FROM meal_orders
		WHERE child_id::text = ANY($1)
		  AND meal_date BETWEEN $2 AND $3
		ORDER BY meal_date, created_at, position
	`, childIDs, rng.From.Time(), rng.To.Time())
	if err != nil {
		return nil, err
	}

	return scanOrders(rows)
}

// --------------------------------------------------
// Two-step writes (used when no transaction is available)
// --------------------------------------------------
func (r *PostgresRepository) DeleteDay(
	ctx context.Context,
	childID string,
	date calendar.Date,
) error {

	_, err := r.db.Exec(ctx, `
		DELETE FROM meal_orders
		WHERE child_id = $1
		  AND meal_date = $2
	`, childID, date.Time())

	return err
}

func (r *PostgresRepository) Insert(
	ctx context.Context,
	rows []CommittedOrder,
) error {

	if len(rows) == 0 {
		return nil
	}
	return r.db.SendBatch(ctx, insertBatch(rows)).Close()
}

// --------------------------------------------------
// REPLACE DAY (ATOMIC, SAFE)
// --------------------------------------------------
func (r *PostgresRepository) ReplaceDay(
	ctx context.Context,
	childID string,
	date calendar.Date,
	rows []CommittedOrder,
) error {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM meal_orders
		WHERE child_id = $1
		  AND meal_date = $2
	`, childID, date.Time()); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if len(rows) > 0 {
		if err := tx.SendBatch(ctx, insertBatch(rows)).Close(); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func insertBatch(rows []CommittedOrder) *pgx.Batch {
	batch := &pgx.Batch{}
	position := make(map[menu.Slot]int)

	for _, o := range rows {
		batch.Queue(`
			INSERT INTO meal_orders (
				id,
				child_id,
				meal_date,
				meal_type,
				meal_name,
				school_code,
				position
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			uuid.New().String(),
			o.ChildID,
			o.Date.Time(),
			string(o.Slot),
			o.ItemName,
			o.SchoolCode,
			position[o.Slot],
		)
		position[o.Slot]++
	}

	return batch
}

func scanOrders(rows pgx.Rows) ([]CommittedOrder, error) {
	defer rows.Close()

	var out []CommittedOrder
	for rows.Next() {
		var (
			o        CommittedOrder
			mealDate time.Time
			mealType string
		)
		if err := rows.Scan(
			&o.ChildID,
			&mealDate,
			&mealType,
			&o.ItemName,
			&o.SchoolCode,
		); err != nil {
			return nil, err
		}

		slot, err := menu.ParseSlot(mealType)
		if err != nil {
			return nil, err
		}
		o.Slot = slot
		o.Date = calendar.FromTime(mealDate)

		out = append(out, o)
	}

	return out, rows.Err()
}
