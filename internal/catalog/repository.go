// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/reviewboard/internal/core"
)

type Repository interface {
	CreateCategory(ctx context.Context, category *Category) error
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategories(
		ctx context.Context,
		params ListParams,
	) ([]Category, int, error)
	DeleteCategory(ctx context.Context, slug string) error

	CreateGenre(ctx context.Context, genre *Genre) error
	GetGenreBySlug(ctx context.Context, slug string) (*Genre, error)
	GetGenresBySlugs(ctx context.Context, slugs []string) ([]Genre, error)
	ListGenres(ctx context.Context, params ListParams) ([]Genre, int, error)
	DeleteGenre(ctx context.Context, slug string) error

	CreateTitle(ctx context.Context, title *Title, genreIDs []string) error
	GetTitleByID(ctx context.Context, id string) (*Title, error)
	UpdateTitle(ctx context.Context, title *Title, genreIDs *[]string) error
	DeleteTitle(ctx context.Context, id string) error
	ListTitles(
		ctx context.Context,
		params ListTitlesParams,
	) ([]Title, int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCategory(
	ctx context.Context,
	category *Category,
) error {
	query := `
		INSERT INTO categories (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &category.CreatedAt, query,
		category.ID,
		category.Name,
		category.Slug,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetCategoryBySlug(
	ctx context.Context,
	slug string,
) (*Category, error) {
	query := `SELECT id, name, slug, created_at FROM categories WHERE slug = $1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (r *repository) ListCategories(
	ctx context.Context,
	params ListParams,
) ([]Category, int, error) {
	return r.listSlugged(ctx, "categories", params)
}

// DeleteCategory relies on the titles FK being ON DELETE SET NULL:
// dependent titles survive with their category cleared.
func (r *repository) DeleteCategory(ctx context.Context, slug string) error {
	return r.deleteBySlug(ctx, "categories", slug, "delete category")
}

func (r *repository) CreateGenre(ctx context.Context, genre *Genre) error {
	query := `
		INSERT INTO genres (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &genre.CreatedAt, query,
		genre.ID,
		genre.Name,
		genre.Slug,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create genre: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create genre: %w", err)
	}

	return nil
}

func (r *repository) GetGenreBySlug(
	ctx context.Context,
	slug string,
) (*Genre, error) {
	query := `SELECT id, name, slug, created_at FROM genres WHERE slug = $1`

	var genre Genre
	err := r.db.GetContext(ctx, &genre, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get genre: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get genre: %w", err)
	}

	return &genre, nil
}

func (r *repository) GetGenresBySlugs(
	ctx context.Context,
	slugs []string,
) ([]Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT id, name, slug, created_at FROM genres WHERE slug IN (?)`,
		slugs,
	)
	if err != nil {
		return nil, fmt.Errorf("build genre query: %w", err)
	}

	var genres []Genre
	err = r.db.SelectContext(ctx, &genres, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("get genres by slugs: %w", err)
	}

	return genres, nil
}

func (r *repository) ListGenres(
	ctx context.Context,
	params ListParams,
) ([]Genre, int, error) {
	params.Normalize()

	whereClause, args := searchClause(params.Search)

	var total int
	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM genres WHERE %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug, created_at
		FROM genres
		WHERE %s
		ORDER BY slug
		LIMIT $%d OFFSET $%d`,
		whereClause, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	var genres []Genre
	if err := r.db.SelectContext(ctx, &genres, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list genres: %w", err)
	}

	return genres, total, nil
}

func (r *repository) DeleteGenre(ctx context.Context, slug string) error {
	return r.deleteBySlug(ctx, "genres", slug, "delete genre")
}

func (r *repository) CreateTitle(
	ctx context.Context,
	title *Title,
	genreIDs []string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO titles (id, name, year, description, category_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, title, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
		)
		if err != nil {
			return fmt.Errorf("create title: %w", err)
		}

		return insertGenreLinks(ctx, tx, title.ID, genreIDs)
	})
}

const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id, t.rating,
	       t.created_at, t.updated_at,
	       c.name AS category_name, c.slug AS category_slug
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id`

func (r *repository) GetTitleByID(
	ctx context.Context,
	id string,
) (*Title, error) {
	query := titleSelect + ` WHERE t.id = $1`

	var title Title
	err := r.db.GetContext(ctx, &title, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get title: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}

	if err := r.loadGenres(ctx, []*Title{&title}); err != nil {
		return nil, err
	}

	return &title, nil
}

// UpdateTitle replaces scalar fields and, when genreIDs is non-nil, the
// full genre link set.
func (r *repository) UpdateTitle(
	ctx context.Context,
	title *Title,
	genreIDs *[]string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE titles
			SET name = $2, year = $3, description = $4, category_id = $5,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err := tx.GetContext(ctx, &title.UpdatedAt, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update title: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update title: %w", err)
		}

		if genreIDs == nil {
			return nil
		}

		_, err = tx.ExecContext(
			ctx,
			`DELETE FROM title_genres WHERE title_id = $1`,
			title.ID,
		)
		if err != nil {
			return fmt.Errorf("clear genre links: %w", err)
		}

		return insertGenreLinks(ctx, tx, title.ID, *genreIDs)
	})
}

// DeleteTitle removes the row; reviews, comments and genre links go
// with it via FK cascade.
func (r *repository) DeleteTitle(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM titles WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete title: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListTitles(
	ctx context.Context,
	params ListTitlesParams,
) ([]Title, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf(
			"c.slug = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Genre != "" {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $%d)`, argIdx))
		args = append(args, params.Genre)
		argIdx++
	}

	if params.Name != "" {
		conditions = append(conditions, fmt.Sprintf(
			"t.name ILIKE $%d", argIdx))
		args = append(args, "%"+escapeLike(params.Name)+"%")
		argIdx++
	}

	if params.Year != nil {
		conditions = append(conditions, fmt.Sprintf("t.year = $%d", argIdx))
		args = append(args, *params.Year)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE %s`, whereClause)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY t.name
		LIMIT $%d OFFSET $%d`,
		titleSelect, whereClause, argIdx, argIdx+1)
	args = append(args, params.PageSize, params.Offset())

	var titles []Title
	if err := r.db.SelectContext(ctx, &titles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}

	refs := make([]*Title, len(titles))
	for i := range titles {
		refs[i] = &titles[i]
	}
	if err := r.loadGenres(ctx, refs); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (r *repository) loadGenres(ctx context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]string, len(titles))
	byID := make(map[string]*Title, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Genres = []Genre{}
	}

	query, args, err := sqlx.In(`
		SELECT tg.title_id, g.id, g.name, g.slug, g.created_at
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id IN (?)
		ORDER BY g.slug`, ids)
	if err != nil {
		return fmt.Errorf("build genre link query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("load genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID string
		var genre Genre
		if err := rows.Scan(
			&titleID,
			&genre.ID,
			&genre.Name,
			&genre.Slug,
			&genre.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan genre link: %w", err)
		}

		if title, ok := byID[titleID]; ok {
			title.Genres = append(title.Genres, genre)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("load genres: %w", err)
	}

	return nil
}

func insertGenreLinks(
	ctx context.Context,
	tx *sqlx.Tx,
	titleID string,
	genreIDs []string,
) error {
	for _, genreID := range genreIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO title_genres (title_id, genre_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			titleID, genreID)
		if err != nil {
			return fmt.Errorf("link genre: %w", err)
		}
	}
	return nil
}

func (r *repository) listSlugged(
	ctx context.Context,
	table string,
	params ListParams,
) ([]Category, int, error) {
	params.Normalize()

	whereClause, args := searchClause(params.Search)

	var total int
	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s", table, whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", table, err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug, created_at
		FROM %s
		WHERE %s
		ORDER BY slug
		LIMIT $%d OFFSET $%d`,
		table, whereClause, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	var items []Category
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}

	return items, total, nil
}

func (r *repository) deleteBySlug(
	ctx context.Context,
	table, slug, op string,
) error {
	result, err := r.db.ExecContext(
		ctx,
		fmt.Sprintf("DELETE FROM %s WHERE slug = $1", table),
		slug,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func searchClause(search string) (string, []any) {
	if search == "" {
		return "TRUE", nil
	}
	return "name ILIKE $1", []any{"%" + escapeLike(search) + "%"}
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
