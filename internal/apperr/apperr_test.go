package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading device: %w", NotFound("device not found"))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsBadRequest(err))
	assert.Equal(t, "device not found", MessageOf(err))
}

func TestUnclassifiedErrorIsInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal error", MessageOf(err))
	assert.False(t, IsNotFound(nil))
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Internal("read failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")
}
