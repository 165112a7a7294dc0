package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_FormatsWithAndWithoutTarget(t *testing.T) {
	withTarget := Validation("task.registry", "package:nginx", "name is required")
	assert.Contains(t, withTarget.Error(), "task.registry")
	assert.Contains(t, withTarget.Error(), "package:nginx")

	noTarget := Security("plugin.host", "", "module exceeds max file size")
	assert.NotContains(t, noTarget.Error(), "()")
}

func TestIs_MatchesClassThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := Network("task.kinds.uri", "https://example.com", cause)

	wrapped := fmt.Errorf("apply failed: %w", err)

	assert.True(t, Is(wrapped, ClassNetwork))
	assert.False(t, Is(wrapped, ClassSandbox))
	assert.ErrorIs(t, wrapped, cause)
}

func TestSandbox_PreservesCause(t *testing.T) {
	cause := errors.New("all fuel consumed")
	err := Sandbox("plugin.host", "echoer", "fuel exhausted", cause)
	assert.Same(t, cause, errors.Unwrap(err))
}
