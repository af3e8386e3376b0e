package foods

import (
	"context"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE foods (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    ingredients TEXT NOT NULL DEFAULT '',
    photo_url TEXT NOT NULL DEFAULT '',
    rating TEXT NOT NULL DEFAULT ''
);
`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps all statements on the same in-memory database.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestInsertThenGetByNameRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := FoodItem{Name: "Pizza", Ingredients: "cheese,dough", PhotoURL: "file-abc", Rating: "8"}
	require.NoError(t, s.Insert(ctx, in))

	got, err := s.GetByName(ctx, "Pizza")
	require.NoError(t, err)
	require.NotZero(t, got.ID)
	require.Equal(t, in.Name, got.Name)
	require.Equal(t, in.Ingredients, got.Ingredients)
	require.Equal(t, in.PhotoURL, got.PhotoURL)
	require.Equal(t, in.Rating, got.Rating)
}

func TestGetByNameNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetByName(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListEmptyAndOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, s.Insert(ctx, FoodItem{Name: "Soup"}))
	require.NoError(t, s.Insert(ctx, FoodItem{Name: "Salad"}))

	items, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestSearchByNameIsSubstringFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"Apple pie", "Pineapple", "Soup", "apple"}
	for _, n := range names {
		require.NoError(t, s.Insert(ctx, FoodItem{Name: n}))
	}

	got, err := s.SearchByName(ctx, "apple")
	require.NoError(t, err)

	// A record matches iff the query is a substring of its name
	// (case sensitivity is store-dependent; sqlite LIKE folds ASCII case).
	for _, item := range got {
		require.Contains(t, strings.ToLower(item.Name), "apple")
	}
	require.Len(t, got, 3)

	none, err := s.SearchByName(ctx, "zzz")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestUpdateByNameReplacesAllFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, FoodItem{Name: "Pasta", Ingredients: "flour", Rating: "5"}))
	require.NoError(t, s.UpdateByName(ctx, "Pasta", FoodItem{
		Name:        "Pasta Carbonara",
		Ingredients: "flour,egg,bacon",
		PhotoURL:    "file-new",
		Rating:      "9",
	}))

	_, err := s.GetByName(ctx, "Pasta")
	require.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetByName(ctx, "Pasta Carbonara")
	require.NoError(t, err)
	require.Equal(t, "flour,egg,bacon", got.Ingredients)
	require.Equal(t, "file-new", got.PhotoURL)
	require.Equal(t, "9", got.Rating)
}

func TestDeleteByNameReportsExistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, FoodItem{Name: "Toast"}))

	existed, err := s.DeleteByName(ctx, "Toast")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = s.DeleteByName(ctx, "Toast")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestDeleteAbsentLeavesRecordsUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, FoodItem{Name: "Soup"}))
	require.NoError(t, s.Insert(ctx, FoodItem{Name: "Salad"}))

	existed, err := s.DeleteByName(ctx, "Burger")
	require.NoError(t, err)
	require.False(t, existed)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestDuplicateNamesAffectAllMatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, FoodItem{Name: "Taco", Rating: "6"}))
	require.NoError(t, s.Insert(ctx, FoodItem{Name: "Taco", Rating: "7"}))

	existed, err := s.DeleteByName(ctx, "Taco")
	require.NoError(t, err)
	require.True(t, existed)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}
