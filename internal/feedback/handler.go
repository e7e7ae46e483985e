// AngelaMos | 2026
// handler.go

package feedback

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/reviewboard/internal/core"
	"github.com/carterperez-dev/reviewboard/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts review and comment endpoints under a title.
// Reads are public, writes require authentication.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	reviews := "/titles/{titleID}/reviews"
	comments := reviews + "/{reviewID}/comments"

	r.Get(reviews, h.ListReviews)
	r.Get(reviews+"/{reviewID}", h.GetReview)
	r.Get(comments, h.ListComments)
	r.Get(comments+"/{commentID}", h.GetComment)

	auth := r.With(authenticator)
	auth.Post(reviews, h.CreateReview)
	auth.Patch(reviews+"/{reviewID}", h.UpdateReview)
	auth.Delete(reviews+"/{reviewID}", h.DeleteReview)

	auth.Post(comments, h.CreateComment)
	auth.Patch(comments+"/{commentID}", h.UpdateComment)
	auth.Delete(comments+"/{commentID}", h.DeleteComment)
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	if !validUUIDs(w, "title", titleID) {
		return
	}
	params := listParamsFromQuery(r)

	reviews, total, err := h.service.ListReviews(r.Context(), titleID, params)
	if err != nil {
		h.renderError(w, err, "title")
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToReviewResponseList(reviews),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	if !validUUIDs(w, "review", titleID, reviewID) {
		return
	}

	review, err := h.service.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		h.renderError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(review))
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	if !validUUIDs(w, "title", titleID) {
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	review, err := h.service.CreateReview(
		r.Context(), titleID, actorFrom(r), req)
	if err != nil {
		h.renderError(w, err, "title")
		return
	}

	core.Created(w, ToReviewResponse(review))
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	if !validUUIDs(w, "review", titleID, reviewID) {
		return
	}

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	review, err := h.service.UpdateReview(
		r.Context(), titleID, reviewID, actorFrom(r), req)
	if err != nil {
		h.renderError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(review))
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	if !validUUIDs(w, "review", titleID, reviewID) {
		return
	}

	err := h.service.DeleteReview(r.Context(), titleID, reviewID, actorFrom(r))
	if err != nil {
		h.renderError(w, err, "review")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	if !validUUIDs(w, "review", titleID, reviewID) {
		return
	}
	params := listParamsFromQuery(r)

	comments, total, err := h.service.ListComments(
		r.Context(), titleID, reviewID, params)
	if err != nil {
		h.renderError(w, err, "review")
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToCommentResponseList(comments),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	commentID := chi.URLParam(r, "commentID")
	if !validUUIDs(w, "comment", titleID, reviewID, commentID) {
		return
	}

	comment, err := h.service.GetComment(
		r.Context(), titleID, reviewID, commentID)
	if err != nil {
		h.renderError(w, err, "comment")
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	if !validUUIDs(w, "review", titleID, reviewID) {
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	comment, err := h.service.CreateComment(
		r.Context(), titleID, reviewID, actorFrom(r), req)
	if err != nil {
		h.renderError(w, err, "review")
		return
	}

	core.Created(w, ToCommentResponse(comment))
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	commentID := chi.URLParam(r, "commentID")
	if !validUUIDs(w, "comment", titleID, reviewID, commentID) {
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	comment, err := h.service.UpdateComment(
		r.Context(), titleID, reviewID, commentID, actorFrom(r), req)
	if err != nil {
		h.renderError(w, err, "comment")
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	commentID := chi.URLParam(r, "commentID")
	if !validUUIDs(w, "comment", titleID, reviewID, commentID) {
		return
	}

	err := h.service.DeleteComment(
		r.Context(), titleID, reviewID, commentID, actorFrom(r))
	if err != nil {
		h.renderError(w, err, "comment")
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

func (h *Handler) renderError(
	w http.ResponseWriter,
	err error,
	resource string,
) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, resource)
		return
	}
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}
	core.InternalServerError(w, err)
}

func actorFrom(r *http.Request) Actor {
	ctx := r.Context()
	return Actor{
		UserID:       middleware.GetUserID(ctx),
		Username:     middleware.GetUsername(ctx),
		Capabilities: middleware.GetCapabilities(ctx),
	}
}

func listParamsFromQuery(r *http.Request) ListParams {
	return ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
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
