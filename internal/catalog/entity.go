// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"
)

type Category struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

type Genre struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

// Title is a catalogued creative work. Rating is the persisted rounded
// mean of its review scores, nil while the title has no reviews.
type Title struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Year        int       `db:"year"`
	Description *string   `db:"description"`
	CategoryID  *string   `db:"category_id"`
	Rating      *int      `db:"rating"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	CategoryName *string `db:"category_name"`
	CategorySlug *string `db:"category_slug"`

	Genres []Genre `db:"-"`
}
