// AngelaMos | 2026
// entity.go

package feedback

import "time"

// Review is a single user's scored opinion of a title. The unique
// (title, author) pair is enforced by the database.
type Review struct {
	ID             string    `db:"id"`
	TitleID        string    `db:"title_id"`
	AuthorID       string    `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	Text           string    `db:"text"`
	Score          int       `db:"score"`
	PubDate        time.Time `db:"pub_date"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type Comment struct {
	ID             string    `db:"id"`
	ReviewID       string    `db:"review_id"`
	AuthorID       string    `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	Text           string    `db:"text"`
	PubDate        time.Time `db:"pub_date"`
	UpdatedAt      time.Time `db:"updated_at"`
}
