package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrappedErrors(t *testing.T) {
	err := fmt.Errorf("load product: %w", NotFound("product %s not found", "abc"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, http.StatusNotFound, KindOf(err).Status())
	assert.True(t, Is(err, KindNotFound))

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, KindOf(errors.New("boom")).Status())
	assert.False(t, Is(nil, KindInternal))
}

func TestInsufficientStockIsConflict(t *testing.T) {
	var err error = &InsufficientStockError{ProductID: "p1", Available: 1, Requested: 3}
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, http.StatusConflict, KindOf(err).Status())

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(fmt.Errorf("create order: %w", err), &stockErr))
	assert.Equal(t, 3, stockErr.Requested)
}

func TestWrappedCauseIsKept(t *testing.T) {
	cause := errors.New("disk full")
	err := IO(cause, "write %s", "a.jpg")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "write a.jpg: disk full", err.Error())
	assert.Equal(t, http.StatusBadGateway, External(cause, "send").Kind.Status())
}
