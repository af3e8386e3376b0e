package foods

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/foodbot/core/logger"
)

// ErrNotFound reports that no record matched a lookup. Callers must branch on
// it: "no rows" is a user-facing answer, any other error is an outage.
var ErrNotFound = errors.New("foods: not found")

const component = "service.foods"

// Store executes catalog queries against the foods table using the shared
// connection pool.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps the provided database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// List returns every record in database default order.
func (s *Store) List(ctx context.Context) ([]FoodItem, error) {
	start := time.Now()
	var items []FoodItem
	err := s.db.SelectContext(ctx, &items,
		`SELECT id, name, ingredients, photo_url, rating FROM foods`)
	if err != nil {
		logger.Error(ctx, component, "foods.list",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("list foods: %w", err)
	}
	logger.Debug(ctx, component, "foods.list",
		slog.String("status", "ok"),
		slog.Int("count", len(items)),
		slog.Duration("duration", logger.Took(start)),
	)
	return items, nil
}

// GetByName returns the first record with exactly the given name.
// Returns ErrNotFound when no row matches.
func (s *Store) GetByName(ctx context.Context, name string) (FoodItem, error) {
	start := time.Now()
	var item FoodItem
	err := s.db.GetContext(ctx, &item,
		`SELECT id, name, ingredients, photo_url, rating FROM foods WHERE name = $1 LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return FoodItem{}, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, component, "foods.get",
			slog.String("status", "fail"),
			slog.String("food", logger.SanitizeLimit(name, 64)),
			slog.String("err", err.Error()),
		)
		return FoodItem{}, fmt.Errorf("get food %q: %w", name, err)
	}
	logger.Debug(ctx, component, "foods.get",
		slog.String("status", "ok"),
		slog.String("food", logger.SanitizeLimit(name, 64)),
		slog.Duration("duration", logger.Took(start)),
	)
	return item, nil
}

// SearchByName returns all records whose name contains the fragment.
func (s *Store) SearchByName(ctx context.Context, fragment string) ([]FoodItem, error) {
	start := time.Now()
	var items []FoodItem
	err := s.db.SelectContext(ctx, &items,
		`SELECT id, name, ingredients, photo_url, rating FROM foods WHERE name LIKE '%' || $1 || '%'`, fragment)
	if err != nil {
		logger.Error(ctx, component, "foods.search",
			slog.String("status", "fail"),
			slog.String("payload", logger.SanitizeLimit(fragment, 64)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("search foods %q: %w", fragment, err)
	}
	logger.Debug(ctx, component, "foods.search",
		slog.String("status", "ok"),
		slog.String("payload", logger.SanitizeLimit(fragment, 64)),
		slog.Int("count", len(items)),
		slog.Duration("duration", logger.Took(start)),
	)
	return items, nil
}

// Insert appends a new record. Duplicate names are allowed.
func (s *Store) Insert(ctx context.Context, item FoodItem) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO foods (name, ingredients, photo_url, rating) VALUES ($1, $2, $3, $4)`,
		item.Name, item.Ingredients, item.PhotoURL, item.Rating)
	if err != nil {
		logger.Error(ctx, component, "foods.insert",
			slog.String("status", "fail"),
			slog.String("food", logger.SanitizeLimit(item.Name, 64)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("insert food %q: %w", item.Name, err)
	}
	logger.Info(ctx, component, "foods.insert",
		slog.String("status", "ok"),
		slog.String("food", logger.SanitizeLimit(item.Name, 64)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// UpdateByName overwrites all fields of every row matching oldName.
func (s *Store) UpdateByName(ctx context.Context, oldName string, item FoodItem) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx,
		`UPDATE foods SET name = $1, ingredients = $2, photo_url = $3, rating = $4 WHERE name = $5`,
		item.Name, item.Ingredients, item.PhotoURL, item.Rating, oldName)
	if err != nil {
		logger.Error(ctx, component, "foods.update",
			slog.String("status", "fail"),
			slog.String("food", logger.SanitizeLimit(oldName, 64)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("update food %q: %w", oldName, err)
	}
	logger.Info(ctx, component, "foods.update",
		slog.String("status", "ok"),
		slog.String("food", logger.SanitizeLimit(oldName, 64)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// DeleteByName removes every row matching name and reports whether at least
// one record existed.
func (s *Store) DeleteByName(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	res, err := s.db.ExecContext(ctx, `DELETE FROM foods WHERE name = $1`, name)
	if err != nil {
		logger.Error(ctx, component, "foods.delete",
			slog.String("status", "fail"),
			slog.String("food", logger.SanitizeLimit(name, 64)),
			slog.String("err", err.Error()),
		)
		return false, fmt.Errorf("delete food %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete food %q: rows affected: %w", name, err)
	}
	logger.Info(ctx, component, "foods.delete",
		slog.String("status", "ok"),
		slog.String("food", logger.SanitizeLimit(name, 64)),
		slog.Int64("count", affected),
		slog.Duration("duration", logger.Took(start)),
	)
	return affected > 0, nil
}
