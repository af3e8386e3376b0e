// Package foods implements the persistence gateway for the food catalog.
package foods

// FoodItem is a single catalog record.
//
// Name is the natural lookup key but is not unique: duplicates are possible,
// and name-keyed update/delete affect every matching row. Rating is free text
// despite the "1 to 10" prompt; no range is enforced.
type FoodItem struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Ingredients string `db:"ingredients"`
	PhotoURL    string `db:"photo_url"`
	Rating      string `db:"rating"`
}
