// AngelaMos | 2026
// methodpolicy_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethodPolicy_RejectsPut(t *testing.T) {
	var hit bool
	handler := MethodPolicy(okHandler(&hit))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/titles/t1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST, PATCH, DELETE", rec.Header().Get("Allow"))
	assert.False(t, hit)
}

func TestMethodPolicy_PassesOtherMethods(t *testing.T) {
	for _, method := range []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPatch,
		http.MethodDelete,
	} {
		var hit bool
		handler := MethodPolicy(okHandler(&hit))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, "/v1/titles", nil))

		assert.True(t, hit, method)
	}
}
