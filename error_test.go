package stylemanual_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/stylemanual"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := stylemanual.Errorf(stylemanual.ENOTFOUND, "focus area %q not found", "test")

	assert.Equal(t, stylemanual.ENOTFOUND, stylemanual.ErrorCode(err))
	assert.Equal(t, "focus area \"test\" not found", stylemanual.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, stylemanual.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, stylemanual.ErrorMessage(nil))
}

func TestErrorCode_WrappedApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("download: %w", stylemanual.Errorf(stylemanual.EEXTRACT, "extraction failed for %s", "https://www.stylemanual.gov.au/x"))

	assert.Equal(t, stylemanual.EEXTRACT, stylemanual.ErrorCode(err))
	assert.Equal(t, "extraction failed for https://www.stylemanual.gov.au/x", stylemanual.ErrorMessage(err))
}

func TestErrorMessage_SystemErrorIsOpaque(t *testing.T) {
	t.Parallel()

	err := errors.New("open /var/cache/sections: permission denied")

	assert.Equal(t, stylemanual.EINTERNAL, stylemanual.ErrorCode(err))
	assert.Equal(t, stylemanual.GenericErrorMessage, stylemanual.ErrorMessage(err))
}
