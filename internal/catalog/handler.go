// AngelaMos | 2026
// handler.go

package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/reviewboard/internal/core"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return &Handler{
		service:   service,
		validator: v,
	}
}

// RegisterRoutes mounts public reads and write endpoints gated by the
// given middleware chain.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	catalogWrite func(http.Handler) http.Handler,
) {
	r.Get("/categories", h.ListCategories)
	r.With(catalogWrite).Post("/categories", h.CreateCategory)
	r.With(catalogWrite).Delete("/categories/{slug}", h.DeleteCategory)

	r.Get("/genres", h.ListGenres)
	r.With(catalogWrite).Post("/genres", h.CreateGenre)
	r.With(catalogWrite).Delete("/genres/{slug}", h.DeleteGenre)

	r.Get("/titles", h.ListTitles)
	r.Get("/titles/{titleID}", h.GetTitle)
	r.With(catalogWrite).Post("/titles", h.CreateTitle)
	r.With(catalogWrite).Patch("/titles/{titleID}", h.UpdateTitle)
	r.With(catalogWrite).Delete("/titles/{titleID}", h.DeleteTitle)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	categories, total, err := h.service.ListCategories(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToCategoryResponseList(categories),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToCategoryResponse(category))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.DeleteCategory(r.Context(), slug); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "category")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	genres, total, err := h.service.ListGenres(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToGenreResponseList(genres),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req CreateGenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), req)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToGenreResponse(genre))
}

func (h *Handler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.DeleteGenre(r.Context(), slug); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "genre")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	params := ListTitlesParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Category: r.URL.Query().Get("category"),
		Genre:    r.URL.Query().Get("genre"),
		Name:     r.URL.Query().Get("name"),
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			core.JSONError(w, core.ValidationError(map[string]string{
				"year": "must be an integer",
			}))
			return
		}
		params.Year = &year
	}

	titles, total, err := h.service.ListTitles(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToTitleResponseList(titles),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	if !validUUIDs(w, "title", titleID) {
		return
	}

	title, err := h.service.GetTitle(r.Context(), titleID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "title")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTitleResponse(title))
}

func (h *Handler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req CreateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	title, err := h.service.CreateTitle(r.Context(), req)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToTitleResponse(title))
}

func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	if !validUUIDs(w, "title", titleID) {
		return
	}

	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), titleID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "title")
			return
		}
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTitleResponse(title))
}

func (h *Handler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	if !validUUIDs(w, "title", titleID) {
		return
	}

	if err := h.service.DeleteTitle(r.Context(), titleID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "title")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// validUUIDs rejects malformed path ids before they reach the database,
// where they would surface as a Postgres cast error instead of a 404.
func validUUIDs(w http.ResponseWriter, resource string, ids ...string) bool {
	for _, id := range ids {
		if uuid.Validate(id) != nil {
			core.NotFound(w, resource)
			return false
		}
	}
	return true
}

func listParamsFromQuery(r *http.Request) ListParams {
	return ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
