package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without internal",
			err:  New(http.StatusNotFound, "task_not_found", "Task not found"),
			want: "task_not_found: Task not found",
		},
		{
			name: "with internal",
			err:  New(http.StatusServiceUnavailable, "graph_unavailable", "Graph store unreachable").WithInternal(errors.New("dial tcp: refused")),
			want: "graph_unavailable: Graph store unreachable (dial tcp: refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("session expired")
	err := ErrGraphUnavailable.WithInternal(inner)

	assert.Equal(t, inner, errors.Unwrap(err))
	assert.True(t, errors.Is(err, inner))
}

func TestError_Is_MatchesOnCode(t *testing.T) {
	err := ErrPartialWrite.WithInternal(errors.New("graph write failed"))

	assert.True(t, errors.Is(err, ErrPartialWrite))
	assert.False(t, errors.Is(err, ErrMalformedReference))

	// WithMessage copies keep their identity too
	renamed := ErrMalformedReference.WithMessage("no task id derivable from 'doc-9'")
	assert.True(t, errors.Is(renamed, ErrMalformedReference))
}

func TestWithMessage_DoesNotMutateOriginal(t *testing.T) {
	custom := ErrBadRequest.WithMessage("projectId is required")

	assert.Equal(t, "projectId is required", custom.Message)
	assert.Equal(t, "Invalid request", ErrBadRequest.Message)
	assert.Equal(t, ErrBadRequest.Code, custom.Code)
}

func TestWithDetails(t *testing.T) {
	err := ErrValidation.WithDetails(map[string]any{"field": "relationshipType"})

	require.NotNil(t, err.Details)
	assert.Equal(t, "relationshipType", err.Details["field"])
	assert.Nil(t, ErrValidation.Details)
}

func TestToHTTPError(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		status, body := ToHTTPError(NewNotFound("task", "t1"))
		assert.Equal(t, http.StatusNotFound, status)

		errObj := body["error"].(map[string]any)
		assert.Equal(t, "not_found", errObj["code"])
		assert.Equal(t, "task 't1' not found", errObj["message"])
	})

	t.Run("unknown error", func(t *testing.T) {
		status, body := ToHTTPError(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, status)

		errObj := body["error"].(map[string]any)
		assert.Equal(t, "internal_error", errObj["code"])
	})
}

func TestTaxonomyStatuses(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, ErrGraphUnavailable.HTTPStatus)
	assert.Equal(t, http.StatusServiceUnavailable, ErrVectorUnavailable.HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, ErrPartialWrite.HTTPStatus)
	assert.Equal(t, http.StatusUnprocessableEntity, ErrMalformedReference.HTTPStatus)
}
