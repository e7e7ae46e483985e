// AngelaMos | 2026
// dto.go

package catalog

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type CreateTitleRequest struct {
	Name        string   `json:"name"        validate:"required,max=256"`
	Year        int      `json:"year"        validate:"required"`
	Description *string  `json:"description" validate:"omitempty"`
	Category    *string  `json:"category"    validate:"omitempty,max=50,slug"`
	Genres      []string `json:"genre"       validate:"omitempty,dive,max=50,slug"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name,omitempty"        validate:"omitempty,max=256"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"    validate:"omitempty,max=50,slug"`
	Genres      *[]string `json:"genre,omitempty"       validate:"omitempty,dive,max=50,slug"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *int              `json:"rating,omitempty"`
	Description string            `json:"description,omitempty"`
	Category    *CategoryResponse `json:"category"`
	Genres      []GenreResponse   `json:"genre"`
}

type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

type ListTitlesParams struct {
	Page     int
	PageSize int
	Category string
	Genre    string
	Name     string
	Year     *int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *ListTitlesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListTitlesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}

func ToGenreResponse(g *Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}

func ToCategoryResponseList(categories []Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, ToCategoryResponse(&c))
	}
	return responses
}

func ToGenreResponseList(genres []Genre) []GenreResponse {
	responses := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		responses = append(responses, ToGenreResponse(&g))
	}
	return responses
}

func ToTitleResponse(t *Title) TitleResponse {
	resp := TitleResponse{
		ID:     t.ID,
		Name:   t.Name,
		Year:   t.Year,
		Rating: t.Rating,
		Genres: ToGenreResponseList(t.Genres),
	}

	if t.Description != nil {
		resp.Description = *t.Description
	}

	if t.CategorySlug != nil && t.CategoryName != nil {
		resp.Category = &CategoryResponse{
			Name: *t.CategoryName,
			Slug: *t.CategorySlug,
		}
	}

	return resp
}

func ToTitleResponseList(titles []Title) []TitleResponse {
	responses := make([]TitleResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, ToTitleResponse(&titles[i]))
	}
	return responses
}
