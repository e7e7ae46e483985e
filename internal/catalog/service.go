// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/reviewboard/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCategory(
	ctx context.Context,
	req CreateCategoryRequest,
) (*Category, error) {
	category := &Category{
		ID:   uuid.NewString(),
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError(
				"category with this slug already exists")
		}
		return nil, err
	}

	return category, nil
}

func (s *Service) ListCategories(
	ctx context.Context,
	params ListParams,
) ([]Category, int, error) {
	return s.repo.ListCategories(ctx, params)
}

func (s *Service) DeleteCategory(ctx context.Context, slug string) error {
	return s.repo.DeleteCategory(ctx, slug)
}

func (s *Service) CreateGenre(
	ctx context.Context,
	req CreateGenreRequest,
) (*Genre, error) {
	genre := &Genre{
		ID:   uuid.NewString(),
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.CreateGenre(ctx, genre); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError(
				"genre with this slug already exists")
		}
		return nil, err
	}

	return genre, nil
}

func (s *Service) ListGenres(
	ctx context.Context,
	params ListParams,
) ([]Genre, int, error) {
	return s.repo.ListGenres(ctx, params)
}

func (s *Service) DeleteGenre(ctx context.Context, slug string) error {
	return s.repo.DeleteGenre(ctx, slug)
}

func (s *Service) CreateTitle(
	ctx context.Context,
	req CreateTitleRequest,
) (*Title, error) {
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	title := &Title{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != nil {
		category, err := s.repo.GetCategoryBySlug(ctx, *req.Category)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, core.ValidationError(map[string]string{
					"category": "category not found",
				})
			}
			return nil, err
		}
		title.CategoryID = &category.ID
		title.CategoryName = &category.Name
		title.CategorySlug = &category.Slug
	}

	genres, genreIDs, err := s.resolveGenres(ctx, req.Genres)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.repo.CreateTitle(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	return title, nil
}

func (s *Service) GetTitle(ctx context.Context, id string) (*Title, error) {
	return s.repo.GetTitleByID(ctx, id)
}

func (s *Service) UpdateTitle(
	ctx context.Context,
	id string,
	req UpdateTitleRequest,
) (*Title, error) {
	title, err := s.repo.GetTitleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.repo.GetCategoryBySlug(ctx, *req.Category)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, core.ValidationError(map[string]string{
					"category": "category not found",
				})
			}
			return nil, err
		}
		title.CategoryID = &category.ID
		title.CategoryName = &category.Name
		title.CategorySlug = &category.Slug
	}

	var genreIDs *[]string
	if req.Genres != nil {
		genres, ids, err := s.resolveGenres(ctx, *req.Genres)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
		genreIDs = &ids
	}

	if err := s.repo.UpdateTitle(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	return title, nil
}

func (s *Service) DeleteTitle(ctx context.Context, id string) error {
	return s.repo.DeleteTitle(ctx, id)
}

func (s *Service) ListTitles(
	ctx context.Context,
	params ListTitlesParams,
) ([]Title, int, error) {
	return s.repo.ListTitles(ctx, params)
}

// resolveGenres maps requested slugs to stored genres and fails with a
// field error when any slug is unknown.
func (s *Service) resolveGenres(
	ctx context.Context,
	slugs []string,
) ([]Genre, []string, error) {
	if len(slugs) == 0 {
		return []Genre{}, nil, nil
	}

	genres, err := s.repo.GetGenresBySlugs(ctx, slugs)
	if err != nil {
		return nil, nil, err
	}

	found := make(map[string]Genre, len(genres))
	for _, g := range genres {
		found[g.Slug] = g
	}

	resolved := make([]Genre, 0, len(slugs))
	ids := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		genre, ok := found[slug]
		if !ok {
			return nil, nil, core.ValidationError(map[string]string{
				"genre": fmt.Sprintf("genre %q not found", slug),
			})
		}
		if seen[slug] {
			continue
		}
		seen[slug] = true
		resolved = append(resolved, genre)
		ids = append(ids, genre.ID)
	}

	return resolved, ids, nil
}

func validateYear(year int) error {
	if year > time.Now().Year() {
		return core.ValidationError(map[string]string{
			"year": "year cannot be in the future",
		})
	}
	return nil
}
