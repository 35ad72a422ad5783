package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(New("original"), "output %q", "cxx")
	assert.Equal(t, `output "cxx": original`, wrapped.Error())
}

func TestHints(t *testing.T) {
	err := WithHint(New("bad key"), "use one of: bool, str")
	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "use one of: bool, str", hints[0])
}

func TestIsInvalidConfig(t *testing.T) {
	assert.False(t, IsInvalidConfig(nil))
	assert.False(t, IsInvalidConfig(New("other")))
	assert.True(t, IsInvalidConfig(Wrap(ErrInvalidConfig, "mustache")))
}

type positioned struct{ msg string }

func (e *positioned) Error() string { return e.msg }

func TestAs(t *testing.T) {
	wrapped := Wrap(&positioned{msg: "x"}, "ctx")
	var target *positioned
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "x", target.msg)
}
