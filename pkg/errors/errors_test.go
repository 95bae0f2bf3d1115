package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_MapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		typ    ErrorType
	}{
		{name: "validation", err: NewValidationError("bad input"), status: http.StatusBadRequest, typ: ErrorTypeValidation},
		{name: "not found", err: NewNotFoundError("artifact"), status: http.StatusNotFound, typ: ErrorTypeNotFound},
		{name: "conflict", err: NewConflictError("taken"), status: http.StatusConflict, typ: ErrorTypeConflict},
		{name: "timeout", err: NewTimeoutError("iterate"), status: http.StatusRequestTimeout, typ: ErrorTypeTimeout},
		{name: "network", err: NewNetworkError("unreachable", nil), status: http.StatusBadGateway, typ: ErrorTypeNetwork},
		{name: "parse", err: NewParseFailure("bad blob", nil), status: http.StatusUnprocessableEntity, typ: ErrorTypeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

func TestEngineCodes(t *testing.T) {
	assert.True(t, IsCode(NewDuplicateIDError("r1"), CodeDuplicateID))
	assert.True(t, IsCode(NewInvalidReorderError("wrong length"), CodeInvalidReorder))
	assert.True(t, IsCode(NewTypeMismatchError("table.row.add", "prose"), CodeTypeMismatch))
	assert.True(t, IsCode(NewParseFailure("bad", nil), CodeParseFailure))
	assert.False(t, IsCode(NewValidationError("plain"), CodeDuplicateID))
}

func TestIsType_SeesThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("artifact")
	wrapped := fmt.Errorf("loading failed: %w", inner)

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, inner, GetAppError(wrapped))
	assert.Nil(t, GetAppError(stderrors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))

	// Wrapping an AppError keeps its type and prefixes the message
	appErr := NewConflictError("taken")
	wrapped := Wrap(appErr, "registering")
	require.True(t, IsConflict(wrapped))
	assert.Contains(t, wrapped.Error(), "registering: taken")
	// The original stays usable unprefixed
	assert.Equal(t, "taken", appErr.Message)

	// Wrapping a plain error produces an internal AppError with a cause
	plain := stderrors.New("disk full")
	wrapped = Wrap(plain, "persisting")
	got := GetAppError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrorTypeInternal, got.Type)
	assert.True(t, stderrors.Is(wrapped, plain))
}

func TestIsRemoteFailure(t *testing.T) {
	assert.True(t, IsRemoteFailure(NewNetworkError("down", nil)))
	assert.True(t, IsRemoteFailure(NewExternalError("remote engine", nil)))
	assert.True(t, IsRemoteFailure(NewTimeoutError("apply")))
	assert.False(t, IsRemoteFailure(NewValidationError("bad")))
}
