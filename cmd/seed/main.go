// AngelaMos | 2026
// main.go

// Package main imports catalog fixtures from a directory of CSV files.
//
// Expected files (any subset): category.csv, genre.csv, titles.csv,
// genre_title.csv, users.csv, review.csv, comments.csv. Rows reference
// each other by their CSV ids; the importer maps those to generated
// uuids on the fly, so files must be loaded together.
//
// Usage:
//
//	go run ./cmd/seed -config config.yaml -data ./fixtures
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/reviewboard/internal/config"
	"github.com/carterperez-dev/reviewboard/internal/core"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dataDir := flag.String("data", "data", "directory with CSV fixtures")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	imp := &importer{
		db:         db.DB,
		categories: map[string]string{},
		genres:     map[string]string{},
		titles:     map[string]string{},
		users:      map[string]string{},
		reviews:    map[string]string{},
	}

	steps := []struct {
		file string
		load func(ctx context.Context, rows [][]string) (int, error)
	}{
		{"category.csv", imp.loadCategories},
		{"genre.csv", imp.loadGenres},
		{"users.csv", imp.loadUsers},
		{"titles.csv", imp.loadTitles},
		{"genre_title.csv", imp.loadGenreLinks},
		{"review.csv", imp.loadReviews},
		{"comments.csv", imp.loadComments},
	}

	for _, step := range steps {
		path := filepath.Join(*dataDir, step.file)
		rows, err := readCSV(path)
		if os.IsNotExist(err) {
			fmt.Printf("%-16s skipped (not found)\n", step.file)
			continue
		}
		if err != nil {
			log.Fatalf("read %s: %v", step.file, err)
		}

		n, err := step.load(ctx, rows)
		if err != nil {
			log.Fatalf("import %s: %v", step.file, err)
		}
		fmt.Printf("%-16s %d rows\n", step.file, n)
	}

	if err := imp.refreshRatings(ctx); err != nil {
		log.Fatalf("refresh ratings: %v", err)
	}

	fmt.Println("seeding complete")
}

// readCSV returns all data rows, header stripped.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			continue
		}
		rows = append(rows, record)
	}

	return rows, nil
}

type importer struct {
	db *sqlx.DB

	// CSV id to generated uuid, per table.
	categories map[string]string
	genres     map[string]string
	titles     map[string]string
	users      map[string]string
	reviews    map[string]string
}

// loadCategories expects rows of: id, name, slug.
func (imp *importer) loadCategories(
	ctx context.Context,
	rows [][]string,
) (int, error) {
	for _, row := range rows {
		if len(row) < 3 {
			return 0, fmt.Errorf("category row too short: %v", row)
		}

		id := uuid.NewString()
		_, err := imp.db.ExecContext(ctx, `
			INSERT INTO categories (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING`,
			id, row[1], row[2])
		if err != nil {
			return 0, err
		}
		imp.categories[row[0]] = id
	}
	return len(rows), nil
}

// loadGenres expects rows of: id, name, slug.
func (imp *importer) loadGenres(
	ctx context.Context,
	rows [][]string,
) (int, error) {
	for _, row := range rows {
		if len(row) < 3 {
			return 0, fmt.Errorf("genre row too short: %v", row)
		}

		id := uuid.NewString()
		_, err := imp.db.ExecContext(ctx, `
			INSERT INTO genres (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING`,
			id, row[1], row[2])
		if err != nil {
			return 0, err
		}
		imp.genres[row[0]] = id
	}
	return len(rows), nil
}

// loadUsers expects rows of:
// id, username, email, role, bio, first_name, last_name.
func (imp *importer) loadUsers(
	ctx context.Context,
	rows [][]string,
) (int, error) {
	for _, row := range rows {
		if len(row) < 7 {
			return 0, fmt.Errorf("user row too short: %v", row)
		}

		role := row[3]
		if role == "" {
			role = "user"
		}

		id := uuid.NewString()
		_, err := imp.db.ExecContext(ctx, `
			INSERT INTO users
				(id, username, email, role, bio, first_name, last_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (username) DO NOTHING`,
			id, row[1], row[2], role, row[4], row[5], row[6])
		if err != nil {
			return 0, err
		}
		imp.users[row[0]] = id
	}
	return len(rows), nil
}

// loadTitles expects rows of: id, name, year, category.
func (imp *importer) loadTitles(
	ctx context.Context,
	rows [][]string,
) (int, error) {
	for _, row := range rows {
		if len(row) < 4 {
			return 0, fmt.Errorf("title row too short: %v", row)
		}

		year, err := strconv.Atoi(row[2])
		if err != nil {
			return 0, fmt.Errorf("title %s: bad year %q", row[0], row[2])
		}

		var categoryID *string
		if cid, ok := imp.categories[row[3]]; ok {
			categoryID = &cid
		}

		id := uuid.NewString()
		_, err = imp.db.ExecContext(ctx, `
			INSERT INTO titles (id, name, year, category_id)
			VALUES ($1, $2, $3, $4)`,
			id, row[1], year, categoryID)
		if err != nil {
			return 0, err
		}
		imp.titles[row[0]] = id
	}
	return len(rows), nil
}

// loadGenreLinks expects rows of: id, title_id, genre_id.
func (imp *importer) loadGenreLinks(
	ctx context.Context,
	rows [][]string,
) (int, error) {
	for _, row := range rows {
		if len(row) < 3 {
			return 0, fmt.Errorf("genre link row too short: %v", row)
		}

		titleID, ok := imp.titles[row[1]]
		if !ok {
			return 0, fmt.Errorf("genre link %s: unknown title %s",
				row[0], row[1])
		}
		genreID, ok := imp.genres[row[2]]
		if !ok {
			return 0, fmt.Errorf("genre link %s: unknown genre %s",
				row[0], row[2])
		}

		_, err := imp.db.ExecContext(ctx, `
			INSERT INTO title_genres (title_id, genre_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			titleID, genreID)
		if err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// loadReviews expects rows of: id, title_id, text, author, score, pub_date.
func (imp *importer) loadReviews(
	ctx context.Context,
	rows [][]string,
) (int, error) {
	for _, row := range rows {
		if len(row) < 6 {
			return 0, fmt.Errorf("review row too short: %v", row)
		}

		titleID, ok := imp.titles[row[1]]
		if !ok {
			return 0, fmt.Errorf("review %s: unknown title %s",
				row[0], row[1])
		}
		authorID, ok := imp.users[row[3]]
		if !ok {
			return 0, fmt.Errorf("review %s: unknown author %s",
				row[0], row[3])
		}

		score, err := strconv.Atoi(row[4])
		if err != nil {
			return 0, fmt.Errorf("review %s: bad score %q", row[0], row[4])
		}

		pubDate, err := parseTimestamp(row[5])
		if err != nil {
			return 0, fmt.Errorf("review %s: %w", row[0], err)
		}

		id := uuid.NewString()
		_, err = imp.db.ExecContext(ctx, `
			INSERT INTO reviews
				(id, title_id, author_id, text, score, pub_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (title_id, author_id) DO NOTHING`,
			id, titleID, authorID, row[2], score, pubDate)
		if err != nil {
			return 0, err
		}
		imp.reviews[row[0]] = id
	}
	return len(rows), nil
}

// loadComments expects rows of: id, review_id, text, author, pub_date.
func (imp *importer) loadComments(
	ctx context.Context,
	rows [][]string,
) (int, error) {
	for _, row := range rows {
		if len(row) < 5 {
			return 0, fmt.Errorf("comment row too short: %v", row)
		}

		reviewID, ok := imp.reviews[row[1]]
		if !ok {
			return 0, fmt.Errorf("comment %s: unknown review %s",
				row[0], row[1])
		}
		authorID, ok := imp.users[row[3]]
		if !ok {
			return 0, fmt.Errorf("comment %s: unknown author %s",
				row[0], row[3])
		}

		pubDate, err := parseTimestamp(row[4])
		if err != nil {
			return 0, fmt.Errorf("comment %s: %w", row[0], err)
		}

		_, err = imp.db.ExecContext(ctx, `
			INSERT INTO comments (id, review_id, author_id, text, pub_date)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), reviewID, authorID, row[2], pubDate)
		if err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (imp *importer) refreshRatings(ctx context.Context) error {
	_, err := imp.db.ExecContext(ctx, `
		UPDATE titles t
		SET rating = sub.avg_score
		FROM (
			SELECT title_id, CAST(ROUND(AVG(score)) AS SMALLINT) AS avg_score
			FROM reviews
			GROUP BY title_id
		) sub
		WHERE t.id = sub.title_id`)
	return err
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
	} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", raw)
}
