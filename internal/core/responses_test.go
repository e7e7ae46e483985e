// AngelaMos | 2026
// responses_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginatedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{"a", "b"}, 2, 10, 45)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []string `json:"data"`
		Pagination struct {
			Page       int `json:"page"`
			PageSize   int `json:"page_size"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 45, body.Pagination.Total)
	assert.Equal(t, 5, body.Pagination.TotalPages)
}

func TestJSONError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, ConflictError("already reviewed"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"conflict"`)
	assert.Contains(t, rec.Body.String(), "already reviewed")
}

func TestJSONError_PlainErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("db exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db exploded",
		"internal details must not leak")
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	type payload struct {
		Email string `validate:"required,email"`
		Score int    `validate:"min=1,max=10"`
		Role  string `validate:"omitempty,oneof=user moderator admin"`
	}

	err := v.Struct(payload{Score: 99, Role: "boss"})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "is required", fields["email"])
	assert.Equal(t, "must be at most 10", fields["score"])
	assert.Equal(t, "must be one of: user moderator admin", fields["role"])
}

func TestFormatValidationError_NonValidatorError(t *testing.T) {
	fields := FormatValidationError(errors.New("boom"))
	assert.Equal(t, "boom", fields["_"])
}
