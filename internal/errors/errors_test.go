package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := DatasetUnavailable(fmt.Errorf("open data.csv: no such file"))
	wrapped := Wrap(base, "dashboard view failed")

	assert.Equal(t, CodeDatasetUnavailable, GetCode(wrapped))
	assert.True(t, IsAppError(wrapped))
	assert.Contains(t, wrapped.Error(), "no such file")
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrapf(stderrors.New("boom"), "render %s", "line")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "render line: boom", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
	assert.Nil(t, WithCode(CodeNoRows, nil))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", EmptySelection())

	assert.True(t, HasCode(err, CodeEmptySelection))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("format must be csv or xlsx"))

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Contains(t, err.Error(), "format must be csv or xlsx")
}
