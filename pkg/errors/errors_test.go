package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeInvalidParam:         http.StatusBadRequest,
		CodeTokenMissing:         http.StatusUnauthorized,
		CodePermissionDenied:     http.StatusForbidden,
		CodeChapterNotFound:      http.StatusNotFound,
		CodeGenerationInProgress: http.StatusConflict,
		CodeValidationFailed:     http.StatusUnprocessableEntity,
		CodeGenerationFailed:     http.StatusBadGateway,
		CodeStorageError:         http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, "code %s", code)
	}
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	e := ErrChapterNotFound.WithDetail("index 9")
	assert.Equal(t, "index 9", e.Detail)
	assert.Empty(t, ErrChapterNotFound.Detail)
}

func TestAsAppErrorUnwrapsChains(t *testing.T) {
	wrapped := fmt.Errorf("load draft: %w", ErrBookNotFound)
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, CodeBookNotFound, AsAppError(wrapped).Code)
	assert.True(t, stderrors.Is(wrapped, ErrBookNotFound))

	plain := stderrors.New("boom")
	assert.False(t, IsAppError(plain))
	assert.Equal(t, CodeUnknown, AsAppError(plain).Code)
}
