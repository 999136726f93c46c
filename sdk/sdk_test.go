package sdk

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(nil))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeNoFill, CodeOf(&Error{Code: CodeNoFill, Message: "no fill"}))

	// Wrapped SDK errors still carry their code.
	wrapped := fmt.Errorf("load: %w", &Error{Code: CodeTimeout, Message: "timed out"})
	assert.Equal(t, CodeTimeout, CodeOf(wrapped))
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: CodeNetwork, Message: "airplane mode"}
	assert.Contains(t, err.Error(), "airplane mode")
}

func TestDefaultTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, DefaultTimeout)
}
