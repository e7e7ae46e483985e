// AngelaMos | 2026
// handler_test.go

package feedback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// castErrorRepo fails every lookup the way Postgres does when a
// malformed id reaches a UUID column.
type castErrorRepo struct {
	*fakeFeedbackRepo
}

func (r *castErrorRepo) GetReview(
	_ context.Context,
	_, _ string,
) (*Review, error) {
	return nil, errors.New("invalid input syntax for type uuid")
}

func newFeedbackTestRouter(repo Repository) *chi.Mux {
	handler := NewHandler(NewService(repo))
	router := chi.NewRouter()

	passthrough := func(next http.Handler) http.Handler { return next }
	handler.RegisterRoutes(router, passthrough)

	return router
}

func TestMalformedPathIDsAre404(t *testing.T) {
	repo := &castErrorRepo{newFakeFeedbackRepo()}
	router := newFeedbackTestRouter(repo)

	goodID := "b3c74d0a-9f5d-4f51-9e2c-28e8a8f9d3a1"

	paths := []string{
		"/titles/not-a-uuid/reviews",
		"/titles/not-a-uuid/reviews/" + goodID,
		"/titles/" + goodID + "/reviews/not-a-uuid",
		"/titles/" + goodID + "/reviews/not-a-uuid/comments",
		"/titles/" + goodID + "/reviews/" + goodID + "/comments/not-a-uuid",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestWellFormedIDReachesRepository(t *testing.T) {
	repo := newFakeFeedbackRepo("b3c74d0a-9f5d-4f51-9e2c-28e8a8f9d3a1")
	router := newFeedbackTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet,
		"/titles/b3c74d0a-9f5d-4f51-9e2c-28e8a8f9d3a1/reviews", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
